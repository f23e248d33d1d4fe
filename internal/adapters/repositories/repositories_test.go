package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"fleet-allocation-service/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every pooled connection gets its own :memory: database; keep one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func TestHistoryStoreAppendAndRead(t *testing.T) {
	ctx := context.Background()
	store := NewSqliteHistoryStore(openTestDB(t))

	batch := []domain.HistoricalRecord{
		domain.NewHistoricalRecord("02/11/2025", domain.Allocation{RouteCode: "CX1", AssociateName: "A", VanID: "BW1"}),
		domain.NewHistoricalRecord("02/11/2025", domain.Allocation{RouteCode: "CX2", AssociateName: "B", VanID: "BW2"}),
	}
	if err := store.Append(ctx, batch); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := store.ReadForDate(ctx, "02/11/2025")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d", len(got))
	}
	// Append order is preserved.
	if got[0].Key != "02/11/2025|CX1|A|BW1" || got[1].Key != "02/11/2025|CX2|B|BW2" {
		t.Fatalf("keys = %q, %q", got[0].Key, got[1].Key)
	}
	if len(got[0].Checkpoints) != 0 {
		t.Fatalf("fresh row has checkpoints: %v", got[0].Checkpoints)
	}

	other, err := store.ReadForDate(ctx, "02/12/2025")
	if err != nil {
		t.Fatalf("read other date: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("cross-date leak: %v", other)
	}
}

func TestHistoryStoreDuplicateKeyRollsBackBatch(t *testing.T) {
	ctx := context.Background()
	store := NewSqliteHistoryStore(openTestDB(t))

	seed := domain.NewHistoricalRecord("02/11/2025", domain.Allocation{RouteCode: "CX9", AssociateName: "Marquis Thomas", VanID: "BW2"})
	if err := store.Append(ctx, []domain.HistoricalRecord{seed}); err != nil {
		t.Fatalf("seed append: %v", err)
	}

	batch := []domain.HistoricalRecord{
		domain.NewHistoricalRecord("02/11/2025", domain.Allocation{RouteCode: "CX1", AssociateName: "A", VanID: "BW1"}),
		seed,
	}
	if err := store.Append(ctx, batch); err == nil {
		t.Fatal("expected unique constraint violation")
	}

	got, err := store.ReadForDate(ctx, "02/11/2025")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("failed batch leaked rows: %d", len(got))
	}
}

func TestHistoryStoreSetCheckpoint(t *testing.T) {
	ctx := context.Background()
	store := NewSqliteHistoryStore(openTestDB(t))

	rec := domain.NewHistoricalRecord("02/11/2025", domain.Allocation{RouteCode: "CX1", AssociateName: "A", VanID: "BW1"})
	if err := store.Append(ctx, []domain.HistoricalRecord{rec}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := store.SetCheckpoint(ctx, "BW1", "02/11/2025", domain.Checkpoint1140am, 40); err != nil {
		t.Fatalf("set checkpoint: %v", err)
	}
	if err := store.SetCheckpoint(ctx, "BW1", "02/11/2025", domain.Checkpoint740pm, 180); err != nil {
		t.Fatalf("set checkpoint: %v", err)
	}

	got, err := store.ReadForDate(ctx, "02/11/2025")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	cps := got[0].Checkpoints
	if cps[domain.Checkpoint1140am] != 40 || cps[domain.Checkpoint740pm] != 180 {
		t.Fatalf("checkpoints = %v", cps)
	}
	if _, ok := cps[domain.Checkpoint340pm]; ok {
		t.Fatalf("unset checkpoint present: %v", cps)
	}

	// No row for the van on that date.
	if err := store.SetCheckpoint(ctx, "BW9", "02/11/2025", domain.Checkpoint1140am, 10); err == nil {
		t.Fatal("expected error for unknown van")
	}
}

func TestRosterSourcePreservesMaintainedOrder(t *testing.T) {
	db := openTestDB(t)

	seeds := []VehicleSeed{
		{VanID: "BW3", Category: "Step Van", OpFlag: "Y"},
		{VanID: "BW1", Category: "Extra Large", OpFlag: "Y"},
		{VanID: "BW2", Category: "Large", OpFlag: "N"},
	}
	for _, v := range seeds {
		if _, err := db.Exec(`INSERT INTO roster (van_id, category, op_flag) VALUES (?, ?, ?)`, v.VanID, v.Category, v.OpFlag); err != nil {
			t.Fatalf("insert roster row: %v", err)
		}
	}

	source := NewSQLRosterSource(db)
	got, err := source.Read(context.Background())
	if err != nil {
		t.Fatalf("read roster: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("vehicles = %d", len(got))
	}
	for i, want := range []string{"BW3", "BW1", "BW2"} {
		if got[i].VanID != want {
			t.Fatalf("position %d = %q, want %q", i, got[i].VanID, want)
		}
	}
	if got[0].Category != domain.CategoryStepVan {
		t.Fatalf("category = %q", got[0].Category)
	}
	if got[2].OpFlag != "N" {
		t.Fatalf("op flag = %q", got[2].OpFlag)
	}
}

func TestRosterSourceRejectsUnknownCategory(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Exec(`INSERT INTO roster (van_id, category, op_flag) VALUES ('BW1', 'Scooter', 'Y')`); err != nil {
		t.Fatalf("insert roster row: %v", err)
	}

	if _, err := NewSQLRosterSource(db).Read(context.Background()); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestSeedRosterFromJSON(t *testing.T) {
	db := openTestDB(t)

	path := filepath.Join(t.TempDir(), "roster.json")
	seed := `[
		{"van_id": "BW1", "category": "Extra Large", "op_flag": "Y"},
		{"van_id": "BW2", "category": "Large", "op_flag": ""}
	]`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	if err := SeedRosterFromJSON(db, path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := NewSQLRosterSource(db).Read(context.Background())
	if err != nil {
		t.Fatalf("read roster: %v", err)
	}
	if len(got) != 2 || got[0].VanID != "BW1" || got[1].VanID != "BW2" {
		t.Fatalf("roster = %+v", got)
	}

	// Re-seeding is an upsert, not a duplicate insert.
	if err := SeedRosterFromJSON(db, path); err != nil {
		t.Fatalf("re-seed: %v", err)
	}
	got, err = NewSQLRosterSource(db).Read(context.Background())
	if err != nil {
		t.Fatalf("re-read roster: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("re-seed duplicated rows: %d", len(got))
	}
}

func TestSeedRosterRejectsEmptyVanID(t *testing.T) {
	db := openTestDB(t)

	path := filepath.Join(t.TempDir(), "roster.json")
	if err := os.WriteFile(path, []byte(`[{"van_id": " ", "category": "Large"}]`), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	if err := SeedRosterFromJSON(db, path); err == nil {
		t.Fatal("expected error for blank van_id")
	}
}
