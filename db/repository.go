package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses stored in summary_runs.status.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// timeLayout is how created_at is stored. It sorts lexically in UTC.
const timeLayout = "2006-01-02 15:04:05.000"

// DefaultListLimit is used when ListRecentRuns is given a non-positive limit.
const DefaultListLimit = 10

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// SummaryRun is one row of summary_runs.
type SummaryRun struct {
	ID           int64
	RunID        string
	SourcePath   string
	OutputPath   string
	Model        string
	SourcePages  int
	OutputPages  int
	InputTokens  int
	OutputTokens int
	DurationMS   int64
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// Succeeded reports whether the run produced a summary PDF.
func (r SummaryRun) Succeeded() bool {
	return r.Status == StatusSuccess
}

// NewRunID returns a random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Repository reads and writes run history.
type Repository struct {
	db  *Database
	now func() time.Time
}

// NewRepository creates a Repository on db.
func NewRepository(db *Database) *Repository {
	return &Repository{db: db, now: time.Now}
}

const runColumns = `id, run_id, source_path, output_path, model, source_pages,
	output_pages, input_tokens, output_tokens, duration_ms, status,
	COALESCE(error_message, ''), created_at`

// InsertRun stores run and returns it with ID, RunID and CreatedAt filled
// in. An empty RunID gets a new UUID, a zero CreatedAt the current time, an
// empty Status is derived from ErrorMessage.
func (r *Repository) InsertRun(ctx context.Context, run SummaryRun) (SummaryRun, error) {
	if r.db == nil {
		return run, errors.New("database connection is nil")
	}

	if run.RunID == "" {
		run.RunID = NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = r.now()
	}
	run.CreatedAt = run.CreatedAt.UTC().Truncate(time.Millisecond)
	if run.Status == "" {
		run.Status = StatusSuccess
		if run.ErrorMessage != "" {
			run.Status = StatusFailed
		}
	}

	query := `
		INSERT INTO summary_runs (
			run_id, source_path, output_path, model, source_pages,
			output_pages, input_tokens, output_tokens, duration_ms, status,
			error_message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		run.RunID,
		run.SourcePath,
		run.OutputPath,
		run.Model,
		run.SourcePages,
		run.OutputPages,
		run.InputTokens,
		run.OutputTokens,
		run.DurationMS,
		run.Status,
		nullString(run.ErrorMessage),
		run.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return run, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return run, fmt.Errorf("failed to get last insert id: %w", err)
	}
	run.ID = id
	return run, nil
}

// GetRun returns the run with the given run ID or ErrRunNotFound.
func (r *Repository) GetRun(ctx context.Context, runID string) (SummaryRun, error) {
	runs, err := r.queryRuns(ctx, `SELECT `+runColumns+` FROM summary_runs WHERE run_id = ?`, runID)
	if err != nil {
		return SummaryRun{}, err
	}
	if len(runs) == 0 {
		return SummaryRun{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return runs[0], nil
}

// ListRecentRuns returns up to limit runs, newest first.
func (r *Repository) ListRecentRuns(ctx context.Context, limit int) ([]SummaryRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return r.queryRuns(ctx, `
		SELECT `+runColumns+`
		FROM summary_runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
}

// CountRuns returns the number of stored runs.
func (r *Repository) CountRuns(ctx context.Context) (int64, error) {
	if r.db == nil {
		return 0, errors.New("database connection is nil")
	}
	rows, err := r.db.QueryContext(ctx, `SELECT COUNT(*) FROM summary_runs`)
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	defer rows.Close()

	var count int64
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, fmt.Errorf("failed to scan run count: %w", err)
		}
	}
	return count, rows.Err()
}

// DeleteRunsOlderThan removes runs created more than age ago and returns
// how many were deleted.
func (r *Repository) DeleteRunsOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	if r.db == nil {
		return 0, errors.New("database connection is nil")
	}
	if age < 0 {
		return 0, fmt.Errorf("age must be non-negative, got %s", age)
	}

	cutoff := r.now().Add(-age).UTC().Format(timeLayout)
	result, err := r.db.ExecContext(ctx, `DELETE FROM summary_runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old runs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *Repository) queryRuns(ctx context.Context, query string, args ...any) ([]SummaryRun, error) {
	if r.db == nil {
		return nil, errors.New("database connection is nil")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []SummaryRun
	for rows.Next() {
		var run SummaryRun
		var createdAt string
		err := rows.Scan(
			&run.ID,
			&run.RunID,
			&run.SourcePath,
			&run.OutputPath,
			&run.Model,
			&run.SourcePages,
			&run.OutputPages,
			&run.InputTokens,
			&run.OutputTokens,
			&run.DurationMS,
			&run.Status,
			&run.ErrorMessage,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("run %s: bad created_at %q: %w", run.RunID, createdAt, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}
	return runs, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
