package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent, so it
// is safe to call on each start.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN is re-run on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateLogKeyIndex(db); err != nil {
		return fmt.Errorf("migrating activity_logs key index: %w", err)
	}
	return nil
}

// migrateLogKeyIndex enforces one log per (activity, day, slot). Databases
// written before the index existed may hold duplicates; the newest row of
// each key is kept, matching what an upsert would have produced.
func migrateLogKeyIndex(db *sql.DB) error {
	ctx := context.Background()

	var exists int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_activity_logs_key'`,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking index: %w", err)
	}
	if exists > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM activity_logs
		WHERE rowid NOT IN (
			SELECT rowid FROM (
				SELECT rowid, ROW_NUMBER() OVER (
					PARTITION BY activity_id, day, slot
					ORDER BY created_at DESC, rowid DESC
				) AS rn
				FROM activity_logs
			) WHERE rn = 1
		)`); err != nil {
		return fmt.Errorf("removing duplicate logs: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`CREATE UNIQUE INDEX idx_activity_logs_key ON activity_logs(activity_id, day, slot)`,
	); err != nil {
		return fmt.Errorf("creating idx_activity_logs_key: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing log key migration: %w", err)
	}
	committed = true
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS activities (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		name_key     TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		color        TEXT NOT NULL DEFAULT '',
		kind         TEXT NOT NULL
		             CHECK(kind IN ('checkbox','value','cumulative','container','metric')),
		schedule     TEXT NOT NULL,
		slots        TEXT NOT NULL DEFAULT '',
		target       REAL,
		aggregation  TEXT NOT NULL DEFAULT 'sum'
		             CHECK(aggregation IN ('sum','average')),
		parent_id    TEXT REFERENCES activities(id) ON DELETE SET NULL,
		created_date TEXT NOT NULL,
		stopped_at   TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_activities_name_key ON activities(name_key)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_parent ON activities(parent_id)`,

	`CREATE TABLE IF NOT EXISTS config_snapshots (
		id              TEXT PRIMARY KEY,
		activity_id     TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		kind            TEXT NOT NULL,
		schedule        TEXT NOT NULL,
		slots           TEXT NOT NULL DEFAULT '',
		target          REAL,
		aggregation     TEXT NOT NULL DEFAULT 'sum',
		parent_id       TEXT,
		effective_from  TEXT NOT NULL,
		effective_until TEXT NOT NULL,
		created_at      TEXT NOT NULL,
		CHECK(effective_from <= effective_until)
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_snapshots_window ON config_snapshots(activity_id, effective_from)`,

	`CREATE TABLE IF NOT EXISTS activity_logs (
		id          TEXT PRIMARY KEY,
		activity_id TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		day         TEXT NOT NULL,
		slot        TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL CHECK(status IN ('completed','skipped')),
		value       REAL,
		skip_reason TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activity_logs_day ON activity_logs(day)`,

	`CREATE TABLE IF NOT EXISTS vacation_days (
		day        TEXT PRIMARY KEY,
		note       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	// Source tagging for logs written by imports and sync.
	`ALTER TABLE activity_logs ADD COLUMN source TEXT NOT NULL DEFAULT 'manual'`,
}
