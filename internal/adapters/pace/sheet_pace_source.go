package pace

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"fleet-allocation-service/internal/domain"
	"fleet-allocation-service/internal/ports"
)

const sheetVanIDColumn = "Van ID"

// Fallback pace source reading an imported sheet through the tabular
// boundary: one row per van, one column per checkpoint label. Sits last in
// the priority order behind driver submissions.
type SheetPaceSource struct {
	Source    ports.TabularSource
	DatasetID string
	Table     string
	Log       *zap.Logger
}

func (s *SheetPaceSource) Name() string { return "pace_sheet" }

// Fetch returns the sheet's counts for one (van, date) pair, or nil when
// the van has no row. A non-numeric cell loses that one checkpoint only; a
// blank cell means unreported.
func (s *SheetPaceSource) Fetch(ctx context.Context, vanID, date string) (*domain.PaceRecord, error) {
	table, err := s.Source.Read(ctx, s.DatasetID, s.Table)
	if err != nil {
		return nil, fmt.Errorf("sheet pace source: read %q/%q: %w", s.DatasetID, s.Table, err)
	}

	vanCol := table.Col(sheetVanIDColumn)
	if vanCol < 0 {
		return nil, fmt.Errorf("sheet pace source: table %q has no %q column", s.Table, sheetVanIDColumn)
	}

	for _, row := range table.Rows {
		if vanCol >= len(row) || strings.TrimSpace(row[vanCol]) != vanID {
			continue
		}

		rec := domain.NewPaceRecord(vanID, date)
		for _, cp := range domain.Checkpoints() {
			col := table.Col(string(cp))
			if col < 0 || col >= len(row) {
				continue
			}
			raw := strings.TrimSpace(row[col])
			if raw == "" {
				continue
			}
			count, err := strconv.Atoi(raw)
			if err != nil || count < 0 {
				s.Log.Warn("skipping malformed sheet cell",
					zap.String("van_id", vanID),
					zap.String("checkpoint", string(cp)),
					zap.String("value", raw),
				)
				continue
			}
			rec.Counts[cp] = count
		}

		if !rec.HasData() {
			return nil, nil
		}
		return &rec, nil
	}

	return nil, nil
}
