package storage

import (
	"context"
	"database/sql"
)

// migrateV001 creates the history schema. Every statement uses IF NOT
// EXISTS for idempotency.
func migrateV001(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id          TEXT PRIMARY KEY,
			address     TEXT NOT NULL UNIQUE,
			title       TEXT NOT NULL DEFAULT '',
			last_visit  TEXT NOT NULL,
			visit_count INTEGER NOT NULL DEFAULT 1 CHECK (visit_count >= 1),
			typed_count INTEGER NOT NULL DEFAULT 0 CHECK (typed_count >= 0),
			favicon     BLOB
		)`,

		`CREATE INDEX IF NOT EXISTS idx_entries_last_visit ON entries(last_visit)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
