package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"TrackerSync/internal/domain"
	"TrackerSync/internal/ports"
	"TrackerSync/internal/stats"
)

// StatsDeps wires the adapters the stats refresh needs.
type StatsDeps struct {
	Source     ports.SubmissionSource
	Users      ports.UserInfoSource
	Properties ports.PropertyStore
	Notifier   ports.Notifier
	Logger     *slog.Logger
	Clock      func() time.Time
}

// StatsConfig carries the handle and the solve-count goal for the summary.
type StatsConfig struct {
	Handle string
	Target int
}

// Stats recomputes the all-time counters from the full accepted history,
// ignoring the tracking window, and publishes one summary.
type Stats struct {
	cfg        StatsConfig
	source     ports.SubmissionSource
	users      ports.UserInfoSource
	properties ports.PropertyStore
	notifier   ports.Notifier
	logger     *slog.Logger
	clock      func() time.Time
}

// NewStats constructs the refresher.
func NewStats(cfg StatsConfig, deps StatsDeps) *Stats {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Stats{
		cfg:        cfg,
		source:     deps.Source,
		users:      deps.Users,
		properties: deps.Properties,
		notifier:   deps.Notifier,
		logger:     logger,
		clock:      clock,
	}
}

// Run fetches the full history, aggregates, persists the snapshots, and
// sends the summary notification.
func (s *Stats) Run(ctx context.Context) (domain.SolveStats, domain.UserStats, error) {
	handle := strings.TrimSpace(s.cfg.Handle)
	if handle == "" {
		s.notifyOnce(ctx, "⚠️ Stats Not Configured",
			"Codeforces handle is missing. Set codeforces.handle (or CODEFORCES_HANDLE) first.")
		return domain.SolveStats{}, domain.UserStats{}, errors.New("stats: codeforces handle is not configured")
	}

	subs, err := s.source.Submissions(ctx, handle)
	if err != nil {
		return domain.SolveStats{}, domain.UserStats{}, fmt.Errorf("fetch submissions: %w", err)
	}

	solve := stats.Aggregate(subs, s.clock().UTC())
	if raw, err := json.Marshal(solve); err == nil {
		if err := s.properties.Set(ctx, propSolveStats, string(raw)); err != nil {
			s.logger.Warn("persist solve stats failed", "error", err)
		}
	}

	var user domain.UserStats
	if s.users != nil {
		user, err = s.users.UserInfo(ctx, handle)
		if err != nil {
			s.logger.Warn("user info unavailable", "error", err)
			user = domain.UserStats{Handle: handle}
		} else if raw, mErr := json.Marshal(user); mErr == nil {
			if err := s.properties.Set(ctx, propUserStats, string(raw)); err != nil {
				s.logger.Warn("persist user stats failed", "error", err)
			}
		}
	}

	s.notifyOnce(ctx, "📊 CodeForces Sync Complete", fmt.Sprintf(
		"Handle: %s\nProblems Solved: %d/%d\nRating: %s\nRank: %s",
		handle, solve.TotalSolved, s.cfg.Target,
		ratingText(user.Rating), rankText(user.Rank)))
	return solve, user, nil
}

func ratingText(rating int) string {
	if rating == 0 {
		return "unrated"
	}
	return strconv.Itoa(rating)
}

func rankText(rank string) string {
	if rank == "" {
		return "unrated"
	}
	return rank
}

func (s *Stats) notifyOnce(ctx context.Context, title, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, title, message); err != nil {
		s.logger.Warn("notification failed", "title", title, "error", err)
	}
}
