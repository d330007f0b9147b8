package shutdown

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"pdf_summarizer/logging"
)

// RemoveStale returns a Func that deletes files matching pattern, such as
// temporary PDFs left by an earlier run that was killed mid-write. Removal
// failures are logged and do not fail shutdown.
func RemoveStale(logger *logging.Logger, pattern string) Func {
	return func(ctx context.Context) error {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return err
		}
		for _, path := range matches {
			if ctx.Err() != nil {
				logger.Warn("Shutdown deadline reached, leaving stale files", zap.Int("remaining", len(matches)))
				return nil
			}
			info, err := os.Lstat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			if err := os.Remove(path); err != nil {
				logger.Warn("Failed to remove stale file", zap.String("path", path), zap.Error(err))
				continue
			}
			logger.Debug("Removed stale file", zap.String("path", path))
		}
		return nil
	}
}
