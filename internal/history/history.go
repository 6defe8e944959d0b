// Package history records completed exports in a local SQLite database so
// past downloads can be listed and audited.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS downloads (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	batch_id   TEXT NOT NULL,
	url        TEXT NOT NULL,
	format     TEXT NOT NULL,
	path       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_downloads_created ON downloads(created_at);
`

// Open opens or creates the history database inside dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dir+"/history.db?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	// SQLite supports one writer; the batch loop is single-threaded anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Entry is one recorded export.
type Entry struct {
	BatchID   string
	URL       string
	Format    string
	Path      string
	CreatedAt time.Time
}

// Record inserts one successful export. Multiple artifacts produce multiple
// rows sharing the same URL and format.
func (s *Store) Record(ctx context.Context, batchID, url, format string, artifacts []string) error {
	now := time.Now().UTC()
	for _, path := range artifacts {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO downloads (batch_id, url, format, path, created_at) VALUES (?, ?, ?, ?, ?)`,
			batchID, url, format, path, now)
		if err != nil {
			return fmt.Errorf("recording download: %w", err)
		}
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT batch_id, url, format, path, created_at
		 FROM downloads ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.BatchID, &e.URL, &e.Format, &e.Path, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return entries, nil
}
