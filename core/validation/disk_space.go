package validation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// MinOutputSpace is the free space required next to the output file.
const MinOutputSpace int64 = 10 * 1024 * 1024

// DiskSpaceInfo describes the filesystem containing a path.
type DiskSpaceInfo struct {
	Path        string
	Total       int64
	Free        int64
	UsedPercent float64
}

// DiskSpaceError indicates a disk space problem.
type DiskSpaceError struct {
	Path      string
	Required  int64
	Available int64
}

func (e *DiskSpaceError) Error() string {
	return fmt.Sprintf("insufficient disk space at %s: need %s, have %s free",
		e.Path, humanize.IBytes(uint64(e.Required)), humanize.IBytes(uint64(e.Available)))
}

// GetDiskSpace reports the filesystem containing path. A missing path is
// resolved to its nearest existing parent.
func GetDiskSpace(path string) (*DiskSpaceInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if parent := filepath.Dir(path); os.IsNotExist(err) && parent != path {
			return GetDiskSpace(parent)
		}
		return nil, fmt.Errorf("cannot access path %s: %w", path, err)
	}
	if !info.IsDir() {
		path = filepath.Dir(path)
	}

	total, free, err := getDiskSpace(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get disk space for %s: %w", path, err)
	}

	result := &DiskSpaceInfo{Path: path, Total: total, Free: free}
	if total > 0 {
		result.UsedPercent = float64(total-free) / float64(total) * 100
	}
	return result, nil
}

// CheckDiskSpace returns a *DiskSpaceError when less than required bytes
// are free at path.
func CheckDiskSpace(path string, required int64) error {
	info, err := GetDiskSpace(path)
	if err != nil {
		return err
	}
	if info.Free < required {
		return &DiskSpaceError{Path: info.Path, Required: required, Available: info.Free}
	}
	return nil
}
