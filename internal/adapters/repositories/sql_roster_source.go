package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleet-allocation-service/internal/domain"
)

// SQL-backed implementation of the RosterSource port. The query is
// placeholder-free, so the same adapter serves SQLite and Postgres.
type SQLRosterSource struct{ DB *sql.DB }

func NewSQLRosterSource(db *sql.DB) *SQLRosterSource {
	return &SQLRosterSource{DB: db}
}

// Read returns the full roster in maintained order. The partitioner
// preserves this ordering and the matcher's tie-breaking depends on it.
func (s *SQLRosterSource) Read(ctx context.Context) ([]domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("sql roster source: DB is nil")
	}

	query := `
	SELECT
		van_id,
		category,
		op_flag
	FROM roster
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read roster: query roster table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0, 64)
	for rows.Next() {
		var vanID, rawCategory, opFlag string
		if err := rows.Scan(&vanID, &rawCategory, &opFlag); err != nil {
			return nil, fmt.Errorf("read roster: scan row: %w", err)
		}

		category, err := domain.ParseCategory(rawCategory)
		if err != nil {
			return nil, fmt.Errorf("read roster: van %q: %w", vanID, err)
		}

		vehicles = append(vehicles, domain.Vehicle{VanID: vanID, Category: category, OpFlag: opFlag})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read roster: row iteration: %w", err)
	}

	return vehicles, nil
}
