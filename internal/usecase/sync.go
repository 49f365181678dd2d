package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"TrackerSync/internal/domain"
	"TrackerSync/internal/ports"
	"TrackerSync/internal/reconcile"
	"TrackerSync/internal/stats"
)

// Property-store keys shared across runs.
const (
	propWindowStart = "WINDOW_START"
	propUserStats   = "CF_USER_STATS"
	propSolveStats  = "CF_SUBMISSIONS_STATS"
)

// DefaultWindowDays is the tracking period when config names none.
const DefaultWindowDays = 365

const previewSampleSize = 10

// SyncDeps wires all driven adapters into the sync pipeline.
type SyncDeps struct {
	Source     ports.SubmissionSource
	Users      ports.UserInfoSource
	Table      ports.ProblemTable
	Properties ports.PropertyStore
	Notifier   ports.Notifier
	Logger     *slog.Logger
	Clock      func() time.Time
}

// SyncConfig is the static configuration resolved at the process boundary.
type SyncConfig struct {
	Handle      string
	WindowStart string // "2006-01-02"; empty anchors the window on the first run
	WindowDays  int
}

// Sync is the reconciliation pipeline: fetch paged submissions, reduce them
// against the tracking window and already-persisted keys, append the delta in
// one bulk write, refresh stats, and report.
//
// Runs are strictly sequential and not serialized against each other: two
// overlapping runs could both pass the key scan and double-append. That race
// is accepted; the store has a single human actor.
type Sync struct {
	cfg        SyncConfig
	source     ports.SubmissionSource
	users      ports.UserInfoSource
	table      ports.ProblemTable
	properties ports.PropertyStore
	notifier   ports.Notifier
	logger     *slog.Logger
	clock      func() time.Time
}

// Report summarizes one reconciliation run.
type Report struct {
	RunID                 string
	Added                 int
	TotalAcceptedInWindow int
	Window                domain.Window
}

// Preview is a dry-run result: what a sync would append, without writing.
type Preview struct {
	NewProblems           int
	TotalAcceptedInWindow int
	Sample                []domain.ProblemRow
}

// NewSync constructs the pipeline.
func NewSync(cfg SyncConfig, deps SyncDeps) *Sync {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Sync{
		cfg:        cfg,
		source:     deps.Source,
		users:      deps.Users,
		table:      deps.Table,
		properties: deps.Properties,
		notifier:   deps.Notifier,
		logger:     logger,
		clock:      clock,
	}
}

// Run executes one full reconciliation. Every run ends in exactly one
// notification: the success summary, the nothing-new note, or the
// configuration-missing message.
func (s *Sync) Run(ctx context.Context) (Report, error) {
	runID := uuid.NewString()
	log := s.logger.With("run_id", runID)
	report := Report{RunID: runID}

	handle := strings.TrimSpace(s.cfg.Handle)
	if handle == "" {
		s.notify(ctx, log, "⚠️ Sync Not Configured",
			"Codeforces handle is missing. Set codeforces.handle (or CODEFORCES_HANDLE) first.")
		return report, errors.New("sync: codeforces handle is not configured")
	}

	window, err := s.resolveWindow(ctx)
	if err != nil {
		return report, err
	}
	report.Window = window

	subs, err := s.source.Submissions(ctx, handle)
	if err != nil {
		return report, fmt.Errorf("fetch submissions: %w", err)
	}
	log.Debug("submissions fetched", "count", len(subs))
	if len(subs) == 0 {
		s.notify(ctx, log, "✅ CodeForces Sync",
			fmt.Sprintf("No submissions found for %s.", handle))
		return report, nil
	}

	urls, err := s.table.ScanURLColumn(ctx)
	if err != nil {
		return report, fmt.Errorf("scan existing rows: %w", err)
	}
	existingCount, err := s.table.RowCount(ctx)
	if err != nil {
		return report, fmt.Errorf("count existing rows: %w", err)
	}

	result, err := reconcile.Reconcile(subs, window, reconcile.ExtractKeys(urls))
	if err != nil {
		return report, err
	}
	report.TotalAcceptedInWindow = result.TotalAcceptedInWindow

	if len(result.Delta) == 0 {
		s.notify(ctx, log, "✅ CodeForces Sync", fmt.Sprintf(
			"No new accepted submissions to add (%d already tracked in the period).",
			result.TotalAcceptedInWindow))
		return report, nil
	}

	rows := reconcile.Rows(result.Delta, existingCount)
	if err := s.table.AppendRows(ctx, reconcile.StartRow(existingCount), rows); err != nil {
		return report, fmt.Errorf("append delta: %w", err)
	}
	report.Added = len(rows)

	s.refreshStats(ctx, log, handle, subs)

	s.notify(ctx, log, "✅ CodeForces Sync", fmt.Sprintf(
		"Added %d new accepted submission(s) (day 1–%d).", report.Added, window.Days))
	log.Info("sync complete",
		"added", report.Added, "in_window", result.TotalAcceptedInWindow)
	return report, nil
}

// DryRun reconciles without writing and returns the would-be delta with a
// small sample of projected rows.
func (s *Sync) DryRun(ctx context.Context) (Preview, error) {
	handle := strings.TrimSpace(s.cfg.Handle)
	if handle == "" {
		return Preview{}, errors.New("preview: codeforces handle is not configured")
	}

	window, err := s.resolveWindow(ctx)
	if err != nil {
		return Preview{}, err
	}

	subs, err := s.source.Submissions(ctx, handle)
	if err != nil {
		return Preview{}, fmt.Errorf("fetch submissions: %w", err)
	}

	urls, err := s.table.ScanURLColumn(ctx)
	if err != nil {
		return Preview{}, fmt.Errorf("scan existing rows: %w", err)
	}
	existingCount, err := s.table.RowCount(ctx)
	if err != nil {
		return Preview{}, fmt.Errorf("count existing rows: %w", err)
	}

	result, err := reconcile.Reconcile(subs, window, reconcile.ExtractKeys(urls))
	if err != nil {
		return Preview{}, err
	}

	sample := result.Delta
	if len(sample) > previewSampleSize {
		sample = sample[:previewSampleSize]
	}
	return Preview{
		NewProblems:           len(result.Delta),
		TotalAcceptedInWindow: result.TotalAcceptedInWindow,
		Sample:                reconcile.Rows(sample, existingCount),
	}, nil
}

// resolveWindow fixes the tracking window at run start. Config wins; without
// it the anchor comes from the property store, and the very first run pins
// today's midnight there so later runs keep counting against one period.
func (s *Sync) resolveWindow(ctx context.Context) (domain.Window, error) {
	days := s.cfg.WindowDays
	if days <= 0 {
		days = DefaultWindowDays
	}

	anchor := strings.TrimSpace(s.cfg.WindowStart)
	if anchor == "" {
		anchor = s.properties.GetDefault(ctx, propWindowStart, "")
	}
	if anchor != "" {
		start, err := time.Parse("2006-01-02", anchor)
		if err != nil {
			return domain.Window{}, fmt.Errorf("invalid window start %q: %w", anchor, err)
		}
		return domain.Window{Start: start.UTC(), Days: days}, nil
	}

	now := s.clock().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if err := s.properties.Set(ctx, propWindowStart, start.Format("2006-01-02")); err != nil {
		return domain.Window{}, fmt.Errorf("persist window anchor: %w", err)
	}
	return domain.Window{Start: start, Days: days}, nil
}

// refreshStats recomputes the all-time summary and profile snapshot. It is
// best-effort: a stats failure never fails a sync that already appended rows.
func (s *Sync) refreshStats(ctx context.Context, log *slog.Logger, handle string, subs []domain.Submission) {
	solve := stats.Aggregate(subs, s.clock().UTC())
	if raw, err := json.Marshal(solve); err == nil {
		if err := s.properties.Set(ctx, propSolveStats, string(raw)); err != nil {
			log.Warn("persist solve stats failed", "error", err)
		}
	}

	if s.users == nil {
		return
	}
	user, err := s.users.UserInfo(ctx, handle)
	if err != nil {
		log.Warn("user info unavailable", "error", err)
		return
	}
	if raw, err := json.Marshal(user); err == nil {
		if err := s.properties.Set(ctx, propUserStats, string(raw)); err != nil {
			log.Warn("persist user stats failed", "error", err)
		}
	}
}

func (s *Sync) notify(ctx context.Context, log *slog.Logger, title, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, title, message); err != nil {
		log.Warn("notification failed", "title", title, "error", err)
	}
}
