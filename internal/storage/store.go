package storage

import (
	"context"

	"TrackerSync/internal/ports"
)

// Store is the durable surface both drivers provide: the solved-problems
// table, the key-value property store, the per-day commit log, and the
// notification log used when no webhook is configured.
type Store interface {
	ports.ProblemTable
	ports.PropertyStore
	ports.DailyLog
	LogNotification(ctx context.Context, title, message, status string) error
	Close() error
}

// LogNotifier satisfies ports.Notifier by appending to the notification log.
// It is the fallback sink when the configured target is not a webhook.
type LogNotifier struct {
	Store Store
}

var _ ports.Notifier = (*LogNotifier)(nil)

// Notify appends one LOGGED entry.
func (l *LogNotifier) Notify(ctx context.Context, title, message string) error {
	return l.Store.LogNotification(ctx, title, message, "LOGGED")
}
