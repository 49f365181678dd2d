package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"TrackerSync/internal/codeforces"
	"TrackerSync/internal/config"
	"TrackerSync/internal/discord"
	"TrackerSync/internal/domain"
	"TrackerSync/internal/github"
	"TrackerSync/internal/httpjson"
	"TrackerSync/internal/logging"
	"TrackerSync/internal/ports"
	"TrackerSync/internal/scheduler"
	"TrackerSync/internal/storage"
	"TrackerSync/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	store      storage.Store
	sync       *usecase.Sync
	statistics *usecase.Stats
	commits    *usecase.GitHubSync
	recurring  *usecase.Scheduler
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := openStore(cfg.Storage, baseLogger.With("component", "storage"))
	if err != nil {
		return nil, err
	}

	fetcher := httpjson.New(nil, baseLogger.With("component", "httpjson"))

	cf := codeforces.NewClient(codeforces.Config{
		BaseURL:  cfg.Codeforces.BaseURL,
		PageSize: cfg.Codeforces.PageSize,
	}, fetcher, baseLogger.With("component", "codeforces"))

	gh := github.NewClient(cfg.GitHub.BaseURL, cfg.GitHub.Token,
		fetcher, baseLogger.With("component", "github"))

	notifier := pickNotifier(cfg.Notifications.Target, store, fetcher,
		baseLogger.With("component", "notifier"))

	sync := usecase.NewSync(usecase.SyncConfig{
		Handle:      cfg.Codeforces.Handle,
		WindowStart: cfg.Window.Start,
		WindowDays:  cfg.Window.Days,
	}, usecase.SyncDeps{
		Source:     cf,
		Users:      cf.WithProfileFallback(),
		Table:      store,
		Properties: store,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "sync"),
	})

	statistics := usecase.NewStats(usecase.StatsConfig{
		Handle: cfg.Codeforces.Handle,
		Target: cfg.Codeforces.Target,
	}, usecase.StatsDeps{
		Source:     cf,
		Users:      cf.WithProfileFallback(),
		Properties: store,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "stats"),
	})

	commits := usecase.NewGitHubSync(usecase.GitHubConfig{
		Repo:      cfg.GitHub.Repo,
		TokenSet:  strings.TrimSpace(cfg.GitHub.Token) != "",
		SinceDays: cfg.GitHub.SinceDays,
	}, usecase.GitHubDeps{
		Source:   gh,
		Log:      store,
		Notifier: notifier,
		Logger:   baseLogger.With("component", "github-sync"),
	})

	recurring := usecase.NewScheduler(
		scheduler.NewTicker(cfg.Scheduler.IntervalDuration()),
		sync, baseLogger.With("component", "scheduler"))

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		store:      store,
		sync:       sync,
		statistics: statistics,
		commits:    commits,
		recurring:  recurring,
	}, nil
}

func openStore(cfg config.StorageConfig, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return storage.OpenSQLite(cfg.DSN, logger)
	case "postgres":
		return storage.OpenPostgres(cfg.DSN, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// pickNotifier routes summaries to the webhook when one is configured and to
// the notification-log table otherwise, so no run ends silently.
func pickNotifier(target string, store storage.Store, fetcher *httpjson.Client, logger *slog.Logger) ports.Notifier {
	if strings.Contains(target, "discord.com") || strings.Contains(target, "discordapp.com") {
		return discord.NewNotifier(target, fetcher, logger)
	}
	return &storage.LogNotifier{Store: store}
}

// Close releases the storage handle.
func (a *Application) Close() error {
	return a.store.Close()
}

// Sync runs one reconciliation.
func (a *Application) Sync(ctx context.Context) (usecase.Report, error) {
	return a.sync.Run(ctx)
}

// Preview reconciles without writing.
func (a *Application) Preview(ctx context.Context) (usecase.Preview, error) {
	return a.sync.DryRun(ctx)
}

// Stats refreshes the all-time summary.
func (a *Application) Stats(ctx context.Context) (domain.SolveStats, domain.UserStats, error) {
	return a.statistics.Run(ctx)
}

// GitHub syncs recent commit counts.
func (a *Application) GitHub(ctx context.Context) (int, error) {
	return a.commits.Run(ctx)
}

// RunDaemon starts the recurring sync and blocks until ctx is cancelled.
func (a *Application) RunDaemon(ctx context.Context) error {
	if err := a.recurring.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()
	return a.recurring.Stop(context.Background())
}
