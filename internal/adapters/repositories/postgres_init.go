package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema. Mirrors the SQLite schema with
// Postgres column types.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS roster (
			id BIGSERIAL PRIMARY KEY,
			van_id TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			op_flag TEXT NOT NULL DEFAULT ''
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS allocation_history (
			id BIGSERIAL PRIMARY KEY,
			date TEXT NOT NULL,
			route_code TEXT NOT NULL,
			associate_name TEXT NOT NULL DEFAULT '',
			asset_id TEXT NOT NULL DEFAULT '',
			van_id TEXT NOT NULL,
			identity_key TEXT NOT NULL UNIQUE,
			cp_1140am INTEGER,
			cp_140pm INTEGER,
			cp_340pm INTEGER,
			cp_540pm INTEGER,
			cp_740pm INTEGER
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_allocation_history_date
		ON allocation_history(date);
		`,
		`
		CREATE TABLE IF NOT EXISTS pace_submissions (
			van_id TEXT NOT NULL,
			date TEXT NOT NULL,
			checkpoint TEXT NOT NULL,
			delivered INTEGER NOT NULL,
			PRIMARY KEY (van_id, date, checkpoint)
		);
		`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}
