package services

import (
	"context"
	"fmt"

	"fleet-allocation-service/internal/domain"
)

// memStore is an in-memory HistoryStore for tests.
type memStore struct {
	records   []domain.HistoricalRecord
	appendErr error
}

func (s *memStore) ReadForDate(ctx context.Context, date string) ([]domain.HistoricalRecord, error) {
	out := []domain.HistoricalRecord{}
	for _, r := range s.records {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) Append(ctx context.Context, records []domain.HistoricalRecord) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.records = append(s.records, records...)
	return nil
}

func (s *memStore) SetCheckpoint(ctx context.Context, vanID, date string, cp domain.Checkpoint, count int) error {
	for i := range s.records {
		if s.records[i].VanID == vanID && s.records[i].Date == date {
			if s.records[i].Checkpoints == nil {
				s.records[i].Checkpoints = map[domain.Checkpoint]int{}
			}
			s.records[i].Checkpoints[cp] = count
			return nil
		}
	}
	return fmt.Errorf("no allocation row for van %q on %s", vanID, date)
}

// memRoster is an in-memory RosterSource for tests.
type memRoster struct{ vehicles []domain.Vehicle }

func (r *memRoster) Read(ctx context.Context) ([]domain.Vehicle, error) {
	return r.vehicles, nil
}

// stubPaceSource yields a fixed record (or error) for any (van, date) pair.
type stubPaceSource struct {
	name string
	rec  *domain.PaceRecord
	err  error
}

func (s *stubPaceSource) Name() string { return s.name }

func (s *stubPaceSource) Fetch(ctx context.Context, vanID, date string) (*domain.PaceRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rec, nil
}

// memRecorder captures validated submissions.
type memRecorder struct {
	calls []string
}

func (r *memRecorder) Record(ctx context.Context, vanID, date string, cp domain.Checkpoint, count int) error {
	r.calls = append(r.calls, fmt.Sprintf("%s|%s|%s|%d", vanID, date, cp, count))
	return nil
}

func mustMapper(mapping map[string]domain.Category) *CategoryMapper {
	m, err := NewCategoryMapper(mapping)
	if err != nil {
		panic(err)
	}
	return m
}

func testMapping() map[string]domain.Category {
	return map[string]domain.Category{
		"Standard Parcel - Extra Large Van - US": domain.CategoryExtraLarge,
		"Standard Parcel - Large Van":            domain.CategoryLarge,
		"Standard Parcel Step Van - US":          domain.CategoryStepVan,
	}
}
