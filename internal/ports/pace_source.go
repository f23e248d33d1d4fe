package ports

import (
	"context"
	"fleet-allocation-service/internal/domain"
)

// Port: one channel of checkpoint delivery counts for a (van, date) pair.
// Implementations are queried in a fixed priority order by the pace
// aggregator; a nil record means the source has nothing for the pair.
type PaceSource interface {
	Fetch(ctx context.Context, vanID, date string) (*domain.PaceRecord, error)

	// Name identifies the source in logs and provenance reporting.
	Name() string
}

// Port: where validated driver submissions are recorded, keeping the raw
// collection channel separate from the derived checkpoint columns on the
// historical log.
type SubmissionRecorder interface {
	Record(ctx context.Context, vanID, date string, cp domain.Checkpoint, count int) error
}
