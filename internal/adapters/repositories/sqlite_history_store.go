package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleet-allocation-service/internal/domain"
	"fleet-allocation-service/internal/platform/obs"
)

// SQLite-backed implementation of the HistoryStore port.
type SqliteHistoryStore struct{ DB *sql.DB }

func NewSqliteHistoryStore(db *sql.DB) *SqliteHistoryStore {
	return &SqliteHistoryStore{DB: db}
}

// ReadForDate returns every log row for one date in append order. Other
// dates are never scanned; the date index keeps this proportional to the
// day, not the log.
func (s *SqliteHistoryStore) ReadForDate(ctx context.Context, date string) (_ []domain.HistoricalRecord, err error) {
	defer obs.Time(ctx, "history.sqlite.ReadForDate")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite history store: DB is nil")
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
	WHERE date = ?
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

// Append writes the batch inside one transaction so either all rows land or
// none do. The UNIQUE constraint on identity_key backstops the engine's own
// duplicate check.
func (s *SqliteHistoryStore) Append(ctx context.Context, records []domain.HistoricalRecord) (err error) {
	defer obs.Time(ctx, "history.sqlite.Append")(&err)

	if s.DB == nil {
		return errors.New("sqlite history store: DB is nil")
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
	VALUES (?, ?, ?, ?, ?, ?);
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

// SetCheckpoint fills in one checkpoint value on the (van, date) row.
func (s *SqliteHistoryStore) SetCheckpoint(ctx context.Context, vanID, date string, cp domain.Checkpoint, count int) error {
	if s.DB == nil {
		return errors.New("sqlite history store: DB is nil")
	}

	col, err := checkpointColumn(cp)
	if err != nil {
		return fmt.Errorf("set checkpoint: %w", err)
	}

	query := fmt.Sprintf(`
	UPDATE allocation_history
	SET %s = ?
	WHERE van_id = ? AND date = ?;
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

// rowScanner covers *sql.Rows and *sql.Row.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistoryRow(rows rowScanner) (domain.HistoricalRecord, error) {
	var rec domain.HistoricalRecord
	cps := make([]sql.NullInt64, 5)

	if err := rows.Scan(
		&rec.Date,
		&rec.RouteCode,
		&rec.AssociateName,
		&rec.AssetID,
		&rec.VanID,
		&rec.Key,
		&cps[0], &cps[1], &cps[2], &cps[3], &cps[4],
	); err != nil {
		return domain.HistoricalRecord{}, fmt.Errorf("scan row: %w", err)
	}

	rec.Checkpoints = make(map[domain.Checkpoint]int)
	for i, cp := range domain.Checkpoints() {
		if cps[i].Valid {
			rec.Checkpoints[cp] = int(cps[i].Int64)
		}
	}
	return rec, nil
}
