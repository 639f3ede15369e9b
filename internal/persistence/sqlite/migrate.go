package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations lists schema statements in apply order. Each entry runs once;
// applied versions are tracked in schema_migrations.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		weekly_quota INTEGER NOT NULL DEFAULT 0 CHECK (weekly_quota >= 0),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS staff_working_hours (
		staff_id TEXT NOT NULL REFERENCES staff(id) ON DELETE CASCADE,
		day INTEGER NOT NULL CHECK (day BETWEEN 0 AND 4),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		PRIMARY KEY (staff_id, day)
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		blocking INTEGER NOT NULL DEFAULT 0,
		default_start TEXT,
		default_end TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS activity_overrides (
		activity_id TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		day INTEGER NOT NULL CHECK (day BETWEEN 0 AND 4),
		cleared INTEGER NOT NULL DEFAULT 0,
		start_time TEXT,
		end_time TEXT,
		PRIMARY KEY (activity_id, day)
	)`,
	`CREATE TABLE IF NOT EXISTS therapy_sessions (
		id TEXT PRIMARY KEY,
		day INTEGER NOT NULL CHECK (day BETWEEN 0 AND 4),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		staff_id TEXT NOT NULL REFERENCES staff(id) ON DELETE CASCADE,
		room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		generated INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_therapy_sessions_day
		ON therapy_sessions(day, start_time)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		staff_id TEXT PRIMARY KEY REFERENCES staff(id) ON DELETE CASCADE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS auth_tokens (
		token TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL REFERENCES staff(id) ON DELETE CASCADE,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
}

// Migrate applies any schema statements not yet recorded in
// schema_migrations. Statements run inside one transaction per version.
func Migrate(ctx context.Context, pool *ConnectionPool) error {
	if _, err := pool.DB().ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	var current int
	row := pool.DB().QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("failed to read migration state: %w", err)
	}

	for version := current; version < len(migrations); version++ {
		statement := migrations[version]
		err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(statement); err != nil {
				return fmt.Errorf("migration %d failed: %w", version+1, err)
			}
			if _, err := tx.Exec(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`, version+1); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", version+1, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
