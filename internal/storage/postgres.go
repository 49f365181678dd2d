package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"TrackerSync/internal/domain"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS problems (
	seq        INTEGER PRIMARY KEY,
	sheet_row  INTEGER NOT NULL,
	solved_at  TIMESTAMPTZ NOT NULL,
	name       TEXT NOT NULL,
	url        TEXT NOT NULL,
	rating     TEXT NOT NULL,
	tags       TEXT NOT NULL DEFAULT '',
	time_min   TEXT NOT NULL DEFAULT '',
	attempts   TEXT NOT NULL DEFAULT '',
	approach   TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT '',
	language   TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS properties (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS daily_log (
	day     DATE PRIMARY KEY,
	commits INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS notifications (
	created_at TIMESTAMPTZ NOT NULL,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	status     TEXT NOT NULL
);`

// Postgres backs the same tables on a shared server, for setups where the
// tracker data should outlive the machine running the sync.
type Postgres struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	logger  *slog.Logger
}

var _ Store = (*Postgres)(nil)

// OpenPostgres connects with the given DSN and ensures the schema.
func OpenPostgres(dsn string, logger *slog.Logger) (*Postgres, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	return &Postgres{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  logger,
	}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// RowCount returns the number of data rows.
func (p *Postgres) RowCount(ctx context.Context) (int, error) {
	query, args, err := p.builder.Select("COUNT(*)").From("problems").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var count int
	if err := p.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count problems: %w", err)
	}
	return count, nil
}

// ScanURLColumn returns the reference-URL column in table order.
func (p *Postgres) ScanURLColumn(ctx context.Context) ([]string, error) {
	query, args, err := p.builder.Select("url").From("problems").OrderBy("seq").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build url scan: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan url column: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("url rows: %w", err)
	}
	return urls, nil
}

// AppendRows writes the whole delta as one multi-row INSERT.
func (p *Postgres) AppendRows(ctx context.Context, startRow int, rows []domain.ProblemRow) error {
	if len(rows) == 0 {
		return nil
	}

	insert := p.builder.Insert("problems").Columns(
		"seq", "sheet_row", "solved_at", "name", "url", "rating", "tags",
		"time_min", "attempts", "approach", "status", "language", "notes")
	for i, row := range rows {
		insert = insert.Values(
			row.Seq, startRow+i, row.Date.UTC(),
			row.Name, row.URL, row.Rating, row.Tags,
			row.TimeMin, row.Attempts, row.Approach,
			row.Status, row.Language, row.Notes)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build append: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append rows: %w", err)
	}
	return nil
}

// Get returns the property value.
func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	query, args, err := p.builder.Select("value").From("properties").
		Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", fmt.Errorf("build get property: %w", err)
	}
	var value string
	if err := p.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		return "", fmt.Errorf("get property %s: %w", key, err)
	}
	return value, nil
}

// GetDefault never fails; lookup errors are logged and the fallback returned.
func (p *Postgres) GetDefault(ctx context.Context, key, fallback string) string {
	value, err := p.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			p.logger.Debug("property lookup failed", "key", key, "error", err)
		}
		return fallback
	}
	return value
}

// Set upserts one property.
func (p *Postgres) Set(ctx context.Context, key, value string) error {
	query, args, err := p.builder.Insert("properties").
		Columns("key", "value").Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("build set property: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	return nil
}

// SetCommitCount upserts the commit counter for one day.
func (p *Postgres) SetCommitCount(ctx context.Context, day time.Time, count int) error {
	query, args, err := p.builder.Insert("daily_log").
		Columns("day", "commits").Values(day.UTC().Format("2006-01-02"), count).
		Suffix("ON CONFLICT (day) DO UPDATE SET commits = EXCLUDED.commits").
		ToSql()
	if err != nil {
		return fmt.Errorf("build commit count: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set commit count: %w", err)
	}
	return nil
}

// LogNotification appends one entry to the notification log.
func (p *Postgres) LogNotification(ctx context.Context, title, message, status string) error {
	query, args, err := p.builder.Insert("notifications").
		Columns("created_at", "title", "message", "status").
		Values(time.Now().UTC(), title, message, status).
		ToSql()
	if err != nil {
		return fmt.Errorf("build notification: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("log notification: %w", err)
	}
	return nil
}
