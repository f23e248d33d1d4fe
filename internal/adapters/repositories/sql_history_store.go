package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleet-allocation-service/internal/domain"
	"fleet-allocation-service/internal/platform/obs"
)

// Postgres-backed implementation of the HistoryStore port, for deployments
// where the log lives in the shared database rather than a local file.
type SQLHistoryStore struct{ DB *sql.DB }

func NewSQLHistoryStore(db *sql.DB) *SQLHistoryStore {
	return &SQLHistoryStore{DB: db}
}

func (s *SQLHistoryStore) ReadForDate(ctx context.Context, date string) (_ []domain.HistoricalRecord, err error) {
	defer obs.Time(ctx, "history.sql.ReadForDate")(&err)

	if s.DB == nil {
		return nil, errors.New("sql history store: DB is nil")
	}

	query := `
	SELECT
		date,
		route_code,
		associate_name,
		asset_id,
		van_id,
		identity_key,
		cp_1140am, cp_140pm, cp_340pm, cp_540pm, cp_740pm
	FROM allocation_history
	WHERE date = $1
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("read history: query allocation_history: %w", err)
	}
	defer rows.Close()

	records := make([]domain.HistoricalRecord, 0, 64)
	for rows.Next() {
		rec, err := scanHistoryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("read history: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history: row iteration: %w", err)
	}

	return records, nil
}

func (s *SQLHistoryStore) Append(ctx context.Context, records []domain.HistoricalRecord) (err error) {
	defer obs.Time(ctx, "history.sql.Append")(&err)

	if s.DB == nil {
		return errors.New("sql history store: DB is nil")
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append history: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO allocation_history (
		date, route_code, associate_name, asset_id, van_id, identity_key
	)
	VALUES ($1, $2, $3, $4, $5, $6);
	`)
	if err != nil {
		return fmt.Errorf("append history: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Date, r.RouteCode, r.AssociateName, r.AssetID, r.VanID, r.Key); err != nil {
			return fmt.Errorf("append history: insert key=%q: %w", r.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append history: commit tx: %w", err)
	}

	return nil
}

func (s *SQLHistoryStore) SetCheckpoint(ctx context.Context, vanID, date string, cp domain.Checkpoint, count int) error {
	if s.DB == nil {
		return errors.New("sql history store: DB is nil")
	}

	col, err := checkpointColumn(cp)
	if err != nil {
		return fmt.Errorf("set checkpoint: %w", err)
	}

	query := fmt.Sprintf(`
	UPDATE allocation_history
	SET %s = $1
	WHERE van_id = $2 AND date = $3;
	`, col)

	res, err := s.DB.ExecContext(ctx, query, count, vanID, date)
	if err != nil {
		return fmt.Errorf("set checkpoint: update %s for van %q on %s: %w", col, vanID, date, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set checkpoint: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("set checkpoint: no allocation row for van %q on %s", vanID, date)
	}

	return nil
}
