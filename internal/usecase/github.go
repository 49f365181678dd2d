package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"TrackerSync/internal/ports"
)

// GitHubDeps wires the commit-sync adapters.
type GitHubDeps struct {
	Source   ports.CommitSource
	Log      ports.DailyLog
	Notifier ports.Notifier
	Logger   *slog.Logger
	Clock    func() time.Time
}

// GitHubConfig carries the target repository and lookback.
type GitHubConfig struct {
	Repo      string // "owner/name"
	TokenSet  bool
	SinceDays int
}

// GitHubSync pulls recent commits and records per-day counts in the daily
// log. One page of history is enough for a personal repo's recent activity.
type GitHubSync struct {
	cfg      GitHubConfig
	source   ports.CommitSource
	dailyLog ports.DailyLog
	notifier ports.Notifier
	logger   *slog.Logger
	clock    func() time.Time
}

// NewGitHubSync constructs the commit sync.
func NewGitHubSync(cfg GitHubConfig, deps GitHubDeps) *GitHubSync {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	if cfg.SinceDays <= 0 {
		cfg.SinceDays = 30
	}
	return &GitHubSync{
		cfg:      cfg,
		source:   deps.Source,
		dailyLog: deps.Log,
		notifier: deps.Notifier,
		logger:   logger,
		clock:    clock,
	}
}

// Run syncs commit counts. Missing credentials abort before any network call
// with a single configuration message.
func (g *GitHubSync) Run(ctx context.Context) (int, error) {
	var missing []string
	if !g.cfg.TokenSet {
		missing = append(missing, "• GitHub token missing")
	}
	if strings.TrimSpace(g.cfg.Repo) == "" {
		missing = append(missing, "• GitHub repository missing")
	}
	if len(missing) > 0 {
		g.notify(ctx, "⚠️ Setup Incomplete", strings.Join(append(missing,
			"Set github.token and github.repo (or GITHUB_TOKEN / GITHUB_REPO) first."), "\n"))
		return 0, errors.New("github sync: missing credentials")
	}

	since := g.clock().UTC().AddDate(0, 0, -g.cfg.SinceDays)
	commits, err := g.source.CommitsSince(ctx, g.cfg.Repo, since)
	if err != nil {
		g.notify(ctx, "❌ GitHub Sync Error", err.Error())
		return 0, err
	}

	byDay := make(map[string]int)
	for _, commit := range commits {
		byDay[commit.AuthoredAt.UTC().Format("2006-01-02")]++
	}
	for dayText, count := range byDay {
		day, err := time.Parse("2006-01-02", dayText)
		if err != nil {
			continue
		}
		if err := g.dailyLog.SetCommitCount(ctx, day, count); err != nil {
			g.logger.Warn("record commit count failed", "day", dayText, "error", err)
		}
	}

	g.notify(ctx, "🔄 GitHub Sync Complete",
		fmt.Sprintf("Synced %d commits from %s.", len(commits), g.cfg.Repo))
	g.logger.Info("github sync complete", "commits", len(commits), "days", len(byDay))
	return len(commits), nil
}

func (g *GitHubSync) notify(ctx context.Context, title, message string) {
	if g.notifier == nil {
		return
	}
	if err := g.notifier.Notify(ctx, title, message); err != nil {
		g.logger.Warn("notification failed", "title", title, "error", err)
	}
}
