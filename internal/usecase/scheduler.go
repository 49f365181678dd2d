package usecase

import (
	"context"
	"log/slog"
	"time"

	"TrackerSync/internal/ports"
)

// Scheduler wires the ticking driver with the sync pipeline.
type Scheduler struct {
	driver ports.Scheduler
	sync   *Sync
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring syncs.
func NewScheduler(driver ports.Scheduler, sync *Sync, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, sync: sync, logger: logger}
}

// Start registers the sync with the provided scheduler driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.sync == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if _, err := s.sync.Run(ctx); err != nil {
			s.logger.Error("scheduled sync failed", "trigger", trigger, "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
