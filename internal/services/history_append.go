package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fleet-allocation-service/internal/domain"
	"fleet-allocation-service/internal/ports"
)

// PlanAppend computes the duplicate-safe append of candidates for one date.
//
// existingKeys is the set of identity keys already in the log for that date.
// If any candidate key is already present (or repeats within the batch), the
// whole batch is rejected with every duplicate listed and no records are
// produced. Otherwise every candidate becomes a log row carrying the shared batch
// date, in candidate order.
func PlanAppend(existingKeys map[string]struct{}, date string, candidates []domain.Allocation) ([]domain.HistoricalRecord, *DuplicateBatchError) {
	seen := make(map[string]struct{}, len(existingKeys)+len(candidates))
	for k := range existingKeys {
		seen[k] = struct{}{}
	}

	records := make([]domain.HistoricalRecord, 0, len(candidates))
	var duplicates []string

	for _, a := range candidates {
		rec := domain.NewHistoricalRecord(date, a)
		if _, dup := seen[rec.Key]; dup {
			duplicates = append(duplicates, rec.Key)
			continue
		}
		seen[rec.Key] = struct{}{}
		records = append(records, rec)
	}

	if len(duplicates) > 0 {
		return nil, &DuplicateBatchError{Date: date, Keys: duplicates}
	}
	return records, nil
}

// AppendEngine persists allocation batches into the historical log behind
// the HistoryStore port, keeping the per-date key index current.
type AppendEngine struct {
	Store ports.HistoryStore
	// Index is optional. When present it answers the existing-key lookup
	// without scanning the log; it is rebuilt from the log whenever it
	// comes back empty, since it is a cache and never authoritative.
	Index ports.KeyIndex
	Log   *zap.Logger
}

// AppendAllocations appends one batch for date, all-or-nothing.
//
// The existing-key set is built once per batch, date-filtered, never per
// candidate row. On any duplicate the returned error is a
// *DuplicateBatchError and zero rows were written.
func (e *AppendEngine) AppendAllocations(ctx context.Context, date string, candidates []domain.Allocation) ([]domain.HistoricalRecord, error) {
	existing, err := e.existingKeys(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("append allocations: existing keys for %s: %w", date, err)
	}

	records, dup := PlanAppend(existing, date, candidates)
	if dup != nil {
		e.Log.Warn("append batch rejected",
			zap.String("date", date),
			zap.Int("duplicates", len(dup.Keys)),
			zap.Strings("keys", dup.Keys),
		)
		return nil, dup
	}

	if len(records) == 0 {
		return records, nil
	}

	if err := e.Store.Append(ctx, records); err != nil {
		return nil, fmt.Errorf("append allocations: append %d row(s) for %s: %w", len(records), date, err)
	}

	if e.Index != nil {
		keys := make([]string, 0, len(records))
		for _, r := range records {
			keys = append(keys, r.Key)
		}
		if err := e.Index.Add(ctx, date, keys); err != nil {
			// The index is rebuilt from the log on the next empty read;
			// the append itself already landed.
			e.Log.Warn("key index update failed", zap.String("date", date), zap.Error(err))
		}
	}

	e.Log.Info("append batch committed", zap.String("date", date), zap.Int("rows", len(records)))
	return records, nil
}

func (e *AppendEngine) existingKeys(ctx context.Context, date string) (map[string]struct{}, error) {
	if e.Index != nil {
		keys, err := e.Index.Members(ctx, date)
		if err == nil && len(keys) > 0 {
			return keys, nil
		}
		if err != nil {
			e.Log.Warn("key index read failed, falling back to log scan",
				zap.String("date", date), zap.Error(err))
		}
	}

	rows, err := e.Store.ReadForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]struct{}, len(rows))
	rebuilt := make([]string, 0, len(rows))
	for _, r := range rows {
		keys[r.Key] = struct{}{}
		rebuilt = append(rebuilt, r.Key)
	}

	if e.Index != nil && len(rebuilt) > 0 {
		if err := e.Index.Add(ctx, date, rebuilt); err != nil {
			e.Log.Warn("key index rebuild failed", zap.String("date", date), zap.Error(err))
		}
	}

	return keys, nil
}
