package ports

import (
	"context"
	"fleet-allocation-service/internal/domain"
)

// Port: the persistence boundary for the historical allocation log.
//
// The log is append-only with exactly one concurrent writer assumed;
// serializing concurrent run invocations is this collaborator's concern,
// not the core's.
type HistoryStore interface {
	// ReadForDate returns every log row whose date equals date, in append
	// order. Rows for other dates are never scanned.
	ReadForDate(ctx context.Context, date string) ([]domain.HistoricalRecord, error)

	// Append writes records to the end of the log. The write is atomic
	// from the caller's point of view: either all rows land or none do.
	Append(ctx context.Context, records []domain.HistoricalRecord) error

	// SetCheckpoint fills in one checkpoint value on an existing row.
	// Checkpoint columns are the only mutable part of the log.
	SetCheckpoint(ctx context.Context, vanID, date string, cp domain.Checkpoint, count int) error
}
