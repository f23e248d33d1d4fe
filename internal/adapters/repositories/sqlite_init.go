package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// id keeps the maintained roster order; the matcher's tie-breaking
	// follows it, so reads must ORDER BY id.
	createRosterQuery := `
	CREATE TABLE IF NOT EXISTS roster (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		van_id TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL,
		op_flag TEXT NOT NULL DEFAULT ''
	);
	`

	// One row per allocation ever made. identity_key is globally unique;
	// the cp_* columns are the only mutable part of a row.
	createHistoryQuery := `
	CREATE TABLE IF NOT EXISTS allocation_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
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
	`

	createHistoryDateIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_allocation_history_date
	ON allocation_history(date);
	`

	createSubmissionsQuery := `
	CREATE TABLE IF NOT EXISTS pace_submissions (
		van_id TEXT NOT NULL,
		date TEXT NOT NULL,
		checkpoint TEXT NOT NULL,
		delivered INTEGER NOT NULL,
		PRIMARY KEY (van_id, date, checkpoint)
	);
	`

	statements := []string{
		createRosterQuery,
		createHistoryQuery,
		createHistoryDateIndexQuery,
		createSubmissionsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type VehicleSeed struct {
	VanID    string `json:"van_id"`
	Category string `json:"category"`
	OpFlag   string `json:"op_flag"`
}

// Populate the roster table from a JSON file.
func SeedRosterFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed roster: read %q: %w", jsonPath, err)
	}

	var data []VehicleSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed roster: parse json: %w", err)
	}

	rows := make([]VehicleSeed, 0, len(data))
	for i, item := range data {
		vanID := strings.TrimSpace(item.VanID)
		if vanID == "" {
			return fmt.Errorf("seed roster: item at index %d: van_id cannot be empty", i+1)
		}

		category := strings.TrimSpace(item.Category)
		if category == "" {
			return fmt.Errorf("seed roster: van %q: category cannot be empty", vanID)
		}
		rows = append(rows, VehicleSeed{VanID: vanID, Category: category, OpFlag: strings.TrimSpace(item.OpFlag)})
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed roster: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR REPLACE INTO roster (
		van_id,
		category,
		op_flag
	)
	VALUES (?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed roster: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range rows {
		if _, err := stmt.Exec(v.VanID, v.Category, v.OpFlag); err != nil {
			return fmt.Errorf("seed roster: insert van_id=%q: %w", v.VanID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed roster: commit tx: %w", err)
	}

	return nil
}
