package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"TrackerSync/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS problems (
	seq        INTEGER PRIMARY KEY,
	sheet_row  INTEGER NOT NULL,
	solved_at  TEXT NOT NULL,
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
	day     TEXT PRIMARY KEY,
	commits INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS notifications (
	created_at TEXT NOT NULL,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	status     TEXT NOT NULL
);`

// SQLite is the default single-user store: one local file, no server.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (and if needed creates) the database at path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// The store is accessed by one strictly sequential run at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return &SQLite{db: db, logger: logger}, nil
}

// Close releases the underlying handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// RowCount returns the number of data rows (header rows are not stored).
func (s *SQLite) RowCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count problems: %w", err)
	}
	return count, nil
}

// ScanURLColumn returns the reference-URL column in table order.
func (s *SQLite) ScanURLColumn(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url FROM problems ORDER BY seq`)
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

// AppendRows writes the delta in a single transaction so a failed run leaves
// no partial block behind.
func (s *SQLite) AppendRows(ctx context.Context, startRow int, rows []domain.ProblemRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO problems
		(seq, sheet_row, solved_at, name, url, rating, tags, time_min, attempts, approach, status, language, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare append: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.Seq, startRow+i, row.Date.UTC().Format(time.RFC3339),
			row.Name, row.URL, row.Rating, row.Tags,
			row.TimeMin, row.Attempts, row.Approach,
			row.Status, row.Language, row.Notes)
		if err != nil {
			return fmt.Errorf("append row %d: %w", row.Seq, err)
		}
	}

	return tx.Commit()
}

// Get returns the property value or sql.ErrNoRows-wrapped absence.
func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM properties WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get property %s: %w", key, err)
	}
	return value, nil
}

// GetDefault never fails; lookup errors are logged and the fallback returned.
func (s *SQLite) GetDefault(ctx context.Context, key, fallback string) string {
	value, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("property lookup failed", "key", key, "error", err)
		}
		return fallback
	}
	return value
}

// Set upserts one property.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO properties (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	return nil
}

// SetCommitCount upserts the commit counter for one day.
func (s *SQLite) SetCommitCount(ctx context.Context, day time.Time, count int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_log (day, commits) VALUES (?, ?)
		 ON CONFLICT(day) DO UPDATE SET commits = excluded.commits`,
		day.UTC().Format("2006-01-02"), count)
	if err != nil {
		return fmt.Errorf("set commit count: %w", err)
	}
	return nil
}

// LogNotification appends one entry to the notification log.
func (s *SQLite) LogNotification(ctx context.Context, title, message, status string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (created_at, title, message, status) VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), title, message, status)
	if err != nil {
		return fmt.Errorf("log notification: %w", err)
	}
	return nil
}
