package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/frecent/internal/history"
)

// SQLiteStore persists history entries in a SQLite database. It implements
// history.Persister.
type SQLiteStore struct {
	db    *sql.DB
	owned bool
}

// OpenSQLite opens (creating if needed) the database at path and applies
// migrations. The returned store owns the connection and closes it in Close.
func OpenSQLite(ctx context.Context, path, journalMode string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent and serialises writers.
	db.SetMaxOpenConns(1)

	if err := NewMigrationRunner(db, journalMode).Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := NewSQLiteStore(db)
	s.owned = true
	return s, nil
}

// NewSQLiteStore wraps an already-opened and migrated database. The caller
// keeps ownership of db.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load reads every entry. Rows that cannot be decoded make the whole load
// fail with history.ErrDecode.
func (s *SQLiteStore) Load(ctx context.Context) ([]history.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, address, title, last_visit, visit_count, typed_count, favicon
		FROM entries
		ORDER BY last_visit DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: query entries: %v", history.ErrDecode, err)
	}
	defer rows.Close()

	entries := []history.Entry{}
	for rows.Next() {
		var e history.Entry
		var ts string
		if err := rows.Scan(
			&e.ID, &e.Address, &e.Title, &ts, &e.VisitCount, &e.TypedCount, &e.Favicon,
		); err != nil {
			return nil, fmt.Errorf("%w: scan entry: %v", history.ErrDecode, err)
		}
		e.LastVisit, err = parseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %s: %v", history.ErrDecode, e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", history.ErrDecode, err)
	}
	return entries, nil
}

// Save replaces the stored collection with entries in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, entries []history.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, address, title, last_visit, visit_count, typed_count, favicon)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx,
			e.ID, e.Address, e.Title, formatTimestamp(e.LastVisit),
			e.VisitCount, e.TypedCount, e.Favicon,
		)
		if err != nil {
			return fmt.Errorf("insert entry %s: %w", e.Address, err)
		}
	}

	return tx.Commit()
}

// Size returns the database size in bytes.
func (s *SQLiteStore) Size(ctx context.Context) int64 {
	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// Close releases the database if the store opened it.
func (s *SQLiteStore) Close() error {
	if s.owned {
		return s.db.Close()
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}
