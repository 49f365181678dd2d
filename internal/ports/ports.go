package ports

import (
	"context"
	"time"

	"TrackerSync/internal/domain"
)

// SubmissionSource pulls judged submissions from the upstream provider. A
// partially failed fetch returns the pages retrieved so far, not an error.
type SubmissionSource interface {
	Submissions(ctx context.Context, handle string) ([]domain.Submission, error)
}

// UserInfoSource resolves profile stats for a handle.
type UserInfoSource interface {
	UserInfo(ctx context.Context, handle string) (domain.UserStats, error)
}

// ProblemTable is the persisted solved-problems table. The header occupies
// logical rows 1-9 and data starts at row 10; startRow and the per-row
// sequence numbers are computed by the caller, never by the adapter.
type ProblemTable interface {
	RowCount(ctx context.Context) (int, error)
	ScanURLColumn(ctx context.Context) ([]string, error)
	AppendRows(ctx context.Context, startRow int, rows []domain.ProblemRow) error
}

// PropertyStore is the small cross-run key-value store holding handles,
// credentials, the window anchor, and stats snapshots.
type PropertyStore interface {
	Get(ctx context.Context, key string) (string, error)
	// GetDefault never fails: lookup errors and absent keys both yield fallback.
	GetDefault(ctx context.Context, key, fallback string) string
	Set(ctx context.Context, key, value string) error
}

// DailyLog records per-day counters such as commit counts.
type DailyLog interface {
	SetCommitCount(ctx context.Context, day time.Time, count int) error
}

// Notifier delivers the single end-of-run human-readable summary.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// CommitSource lists repository commits authored since a given day.
type CommitSource interface {
	CommitsSince(ctx context.Context, repo string, since time.Time) ([]domain.Commit, error)
}

// Scheduler controls when recurring syncs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
