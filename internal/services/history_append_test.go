package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"fleet-allocation-service/internal/adapters/keyindex"
	"fleet-allocation-service/internal/domain"
)

func TestPlanAppendCleanBatch(t *testing.T) {
	existing := map[string]struct{}{}
	candidates := []domain.Allocation{
		{RouteCode: "CX1", AssociateName: "A", VanID: "BW1"},
		{RouteCode: "CX2", AssociateName: "B", VanID: "BW2"},
	}

	records, dup := PlanAppend(existing, "02/11/2025", candidates)
	if dup != nil {
		t.Fatalf("unexpected rejection: %v", dup)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Key != "02/11/2025|CX1|A|BW1" {
		t.Fatalf("record key = %q", records[0].Key)
	}
	if records[0].Date != "02/11/2025" {
		t.Fatalf("record date = %q", records[0].Date)
	}
}

func TestPlanAppendRejectsWholeBatchOnAnyDuplicate(t *testing.T) {
	existing := map[string]struct{}{
		"02/11/2025|CX9|Marquis Thomas|BW2": {},
	}
	candidates := []domain.Allocation{
		{RouteCode: "CX1", AssociateName: "A", VanID: "BW1"},
		{RouteCode: "CX9", AssociateName: "Marquis Thomas", VanID: "BW2"},
	}

	records, dup := PlanAppend(existing, "02/11/2025", candidates)
	if dup == nil {
		t.Fatal("expected rejection")
	}
	if records != nil {
		t.Fatalf("no records may be produced on rejection, got %v", records)
	}
	if len(dup.Keys) != 1 || dup.Keys[0] != "02/11/2025|CX9|Marquis Thomas|BW2" {
		t.Fatalf("duplicate keys = %v", dup.Keys)
	}
}

func TestAppendEngineIdempotent(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	engine := &AppendEngine{Store: store, Index: keyindex.NewMemoryKeyIndex(), Log: zap.NewNop()}

	batch := []domain.Allocation{
		{RouteCode: "CX1", AssociateName: "A", VanID: "BW1"},
		{RouteCode: "CX2", AssociateName: "B", VanID: "BW2"},
	}

	appended, err := engine.AppendAllocations(ctx, "02/11/2025", batch)
	if err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	if len(appended) != 2 || len(store.records) != 2 {
		t.Fatalf("first append wrote %d rows, store holds %d", len(appended), len(store.records))
	}

	// The exact same batch again must be rejected in full.
	_, err = engine.AppendAllocations(ctx, "02/11/2025", batch)
	var dup *DuplicateBatchError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateBatchError, got %v", err)
	}
	if len(dup.Keys) != 2 {
		t.Fatalf("all rows must be listed as duplicates, got %v", dup.Keys)
	}
	if len(store.records) != 2 {
		t.Fatalf("log length changed on rejected append: %d", len(store.records))
	}
}

func TestAppendEnginePartialCollisionWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	engine := &AppendEngine{Store: store, Log: zap.NewNop()}

	first := []domain.Allocation{
		{RouteCode: "CX9", AssociateName: "Marquis Thomas", VanID: "BW2"},
	}
	if _, err := engine.AppendAllocations(ctx, "02/11/2025", first); err != nil {
		t.Fatalf("seed append failed: %v", err)
	}

	second := []domain.Allocation{
		{RouteCode: "CX1", AssociateName: "A", VanID: "BW1"},
		{RouteCode: "CX9", AssociateName: "Marquis Thomas", VanID: "BW2"},
		{RouteCode: "CX3", AssociateName: "C", VanID: "BW3"},
	}

	_, err := engine.AppendAllocations(ctx, "02/11/2025", second)
	var dup *DuplicateBatchError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateBatchError, got %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("one collision must reject the whole batch, store holds %d rows", len(store.records))
	}
}

func TestAppendEngineSameKeyDifferentDateIsClean(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	engine := &AppendEngine{Store: store, Log: zap.NewNop()}

	batch := []domain.Allocation{
		{RouteCode: "CX9", AssociateName: "Marquis Thomas", VanID: "BW2"},
	}

	if _, err := engine.AppendAllocations(ctx, "02/11/2025", batch); err != nil {
		t.Fatalf("first day append failed: %v", err)
	}
	// The same tuple on a different date derives a different key.
	if _, err := engine.AppendAllocations(ctx, "02/12/2025", batch); err != nil {
		t.Fatalf("next day append failed: %v", err)
	}
	if len(store.records) != 2 {
		t.Fatalf("expected 2 rows across dates, got %d", len(store.records))
	}
}

func TestAppendEngineRebuildsIndexFromLog(t *testing.T) {
	ctx := context.Background()
	seeded := domain.NewHistoricalRecord("02/11/2025", domain.Allocation{
		RouteCode: "CX9", AssociateName: "Marquis Thomas", VanID: "BW2",
	})
	store := &memStore{records: []domain.HistoricalRecord{seeded}}

	// Fresh (empty) index: the engine must fall back to the log scan and
	// still catch the duplicate.
	engine := &AppendEngine{Store: store, Index: keyindex.NewMemoryKeyIndex(), Log: zap.NewNop()}

	_, err := engine.AppendAllocations(ctx, "02/11/2025", []domain.Allocation{
		{RouteCode: "CX9", AssociateName: "Marquis Thomas", VanID: "BW2"},
	})
	var dup *DuplicateBatchError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateBatchError, got %v", err)
	}

	// And the rebuild must have populated the index.
	members, err := engine.Index.Members(ctx, "02/11/2025")
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if _, ok := members["02/11/2025|CX9|Marquis Thomas|BW2"]; !ok {
		t.Fatalf("index not rebuilt from log, members = %v", members)
	}
}
