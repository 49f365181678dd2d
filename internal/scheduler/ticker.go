package scheduler

import (
	"context"
	"time"

	"TrackerSync/internal/ports"
)

// Ticker fires the job once at start and then at a fixed interval. Scheduled
// runs are independent invocations; all cross-run state lives in storage.
type Ticker struct {
	interval time.Duration
	stop     chan struct{}
}

var _ ports.Scheduler = (*Ticker)(nil)

// NewTicker builds a scheduler; a non-positive interval means daily.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Ticker{interval: interval}
}

// Start begins ticking until Stop or context cancellation.
func (t *Ticker) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if t.stop != nil {
		return nil
	}

	t.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case fired := <-ticker.C:
				job(fired)
			case <-ctx.Done():
				return
			case <-t.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (t *Ticker) Stop(ctx context.Context) error {
	if t.stop == nil {
		return nil
	}
	close(t.stop)
	t.stop = nil
	return nil
}
