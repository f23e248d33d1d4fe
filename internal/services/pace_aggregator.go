package services

import (
	"context"

	"go.uber.org/zap"

	"fleet-allocation-service/internal/domain"
	"fleet-allocation-service/internal/ports"
)

// PaceAggregator merges multiple pace data channels into one
// checkpoint-indexed record per van per date.
type PaceAggregator struct {
	// Sources in priority order, authoritative driver submissions first,
	// any fallback/synthetic source last.
	Sources []ports.PaceSource
	Log     *zap.Logger
}

// Resolve returns the pace record for one (van, date) pair.
//
// Sources are tried in priority order and the first one yielding at least
// one checkpoint value wins outright: its record is used in full, and
// lower-priority sources are not consulted even to fill gaps. Winner-take-
// all keeps provenance simple at the cost of never combining partial data
// across sources. A source that errors or yields an all-absent record is
// skipped, not fatal. If nothing yields a value the record is empty.
func (p *PaceAggregator) Resolve(ctx context.Context, vanID, date string) domain.PaceRecord {
	for _, src := range p.Sources {
		rec, err := src.Fetch(ctx, vanID, date)
		if err != nil {
			p.Log.Warn("pace source failed",
				zap.String("source", src.Name()),
				zap.String("van_id", vanID),
				zap.String("date", date),
				zap.Error(err),
			)
			continue
		}
		if rec == nil || !rec.HasData() {
			continue
		}
		return *rec
	}
	return domain.NewPaceRecord(vanID, date)
}

// ResolveAll resolves pace for every van in order, one van at a time.
func (p *PaceAggregator) ResolveAll(ctx context.Context, vanIDs []string, date string) []domain.PaceRecord {
	records := make([]domain.PaceRecord, 0, len(vanIDs))
	for _, id := range vanIDs {
		records = append(records, p.Resolve(ctx, id, date))
	}
	return records
}

// WriteBack fills the resolved counts into the historical log's checkpoint
// columns. One van failing does not stop the others; the first error is
// returned after the pass completes.
func (p *PaceAggregator) WriteBack(ctx context.Context, store ports.HistoryStore, records []domain.PaceRecord) error {
	var firstErr error
	for _, rec := range records {
		for _, cp := range domain.Checkpoints() {
			count, ok := rec.Counts[cp]
			if !ok {
				continue
			}
			if err := store.SetCheckpoint(ctx, rec.VanID, rec.Date, cp, count); err != nil {
				p.Log.Warn("pace write-back failed",
					zap.String("van_id", rec.VanID),
					zap.String("checkpoint", string(cp)),
					zap.Error(err),
				)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	return firstErr
}

// Summarize rolls per-van pace records into the daily aggregate.
//
// Each checkpoint averages only over vans that reported it: a van that
// never reported a checkpoint does not contribute to that checkpoint's
// denominator. TotalVans counts every record passed in; VansWithData counts
// those with at least one checkpoint value.
func Summarize(date string, records []domain.PaceRecord) domain.DailySummary {
	summary := domain.DailySummary{
		Date:         date,
		TotalVans:    len(records),
		Averages:     make(map[domain.Checkpoint]float64),
		ReportCounts: make(map[domain.Checkpoint]int),
	}

	sums := make(map[domain.Checkpoint]int)
	for _, rec := range records {
		if rec.HasData() {
			summary.VansWithData++
		}
		for cp, count := range rec.Counts {
			sums[cp] += count
			summary.ReportCounts[cp]++
		}
	}

	for _, cp := range domain.Checkpoints() {
		if n := summary.ReportCounts[cp]; n > 0 {
			summary.Averages[cp] = float64(sums[cp]) / float64(n)
		}
	}

	return summary
}
