package pace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"fleet-allocation-service/internal/domain"
)

// SQL-backed pace source over the pace_submissions table: the authoritative
// driver-submitted channel. Also records validated submissions, so the raw
// channel survives independently of the derived log columns. Uses $n
// placeholders, which SQLite and Postgres both accept.
type SQLSubmissionSource struct {
	DB  *sql.DB
	Log *zap.Logger
}

func NewSQLSubmissionSource(db *sql.DB, log *zap.Logger) *SQLSubmissionSource {
	return &SQLSubmissionSource{DB: db, Log: log}
}

func (s *SQLSubmissionSource) Name() string { return "driver_submissions" }

// Fetch returns the submitted checkpoint counts for one (van, date) pair,
// or nil when the van has no submissions. A stored row with an unknown
// checkpoint label is skipped and logged; it never aborts the fetch.
func (s *SQLSubmissionSource) Fetch(ctx context.Context, vanID, date string) (*domain.PaceRecord, error) {
	if s.DB == nil {
		return nil, errors.New("submission source: DB is nil")
	}

	query := `
	SELECT checkpoint, delivered
	FROM pace_submissions
	WHERE van_id = $1 AND date = $2;
	`
	rows, err := s.DB.QueryContext(ctx, query, vanID, date)
	if err != nil {
		return nil, fmt.Errorf("fetch submissions: query pace_submissions: %w", err)
	}
	defer rows.Close()

	rec := domain.NewPaceRecord(vanID, date)
	for rows.Next() {
		var label string
		var delivered int
		if err := rows.Scan(&label, &delivered); err != nil {
			return nil, fmt.Errorf("fetch submissions: scan row: %w", err)
		}

		cp, err := domain.ParseCheckpoint(label)
		if err != nil {
			s.Log.Warn("skipping submission with unknown checkpoint",
				zap.String("van_id", vanID),
				zap.String("date", date),
				zap.String("label", label),
			)
			continue
		}
		if delivered < 0 {
			s.Log.Warn("skipping submission with negative count",
				zap.String("van_id", vanID),
				zap.String("date", date),
				zap.Int("delivered", delivered),
			)
			continue
		}
		rec.Counts[cp] = delivered
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch submissions: row iteration: %w", err)
	}

	if !rec.HasData() {
		return nil, nil
	}
	return &rec, nil
}

// Record upserts one validated submission. Re-submissions for the same
// checkpoint overwrite; the tracker has already enforced monotonicity.
func (s *SQLSubmissionSource) Record(ctx context.Context, vanID, date string, cp domain.Checkpoint, count int) error {
	if s.DB == nil {
		return errors.New("submission source: DB is nil")
	}

	query := `
	INSERT INTO pace_submissions (van_id, date, checkpoint, delivered)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (van_id, date, checkpoint) DO UPDATE
	SET delivered = excluded.delivered;
	`
	if _, err := s.DB.ExecContext(ctx, query, vanID, date, string(cp), count); err != nil {
		return fmt.Errorf("record submission: van %q %s %s: %w", vanID, date, cp, err)
	}
	return nil
}
