package db

import (
	"context"
	"fmt"
	"time"
)

// PruneResult reports a retention pass.
type PruneResult struct {
	Deleted   int64
	Remaining int64
	Vacuumed  bool
	Duration  time.Duration
}

// Prune deletes runs older than age and vacuums the file when anything was
// deleted. A VACUUM failure is returned with the deletion already applied.
func (r *Repository) Prune(ctx context.Context, age time.Duration) (PruneResult, error) {
	start := time.Now()
	var result PruneResult

	deleted, err := r.DeleteRunsOlderThan(ctx, age)
	if err != nil {
		return result, err
	}
	result.Deleted = deleted

	if deleted > 0 {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}
		if err := r.db.Vacuum(ctx); err != nil {
			result.Duration = time.Since(start)
			return result, fmt.Errorf("deleted %d runs but VACUUM failed: %w", deleted, err)
		}
		result.Vacuumed = true
	}

	if result.Remaining, err = r.CountRuns(ctx); err != nil {
		return result, err
	}
	result.Duration = time.Since(start)
	return result, nil
}
