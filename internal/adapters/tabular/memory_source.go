package tabular

import (
	"context"
	"fmt"

	"fleet-allocation-service/internal/ports"
)

// In-memory implementation of the TabularSource port, used by tests and by
// callers that already hold materialized rows.
type MemorySource struct {
	tables map[string]ports.Table
}

func NewMemorySource() *MemorySource {
	return &MemorySource{tables: make(map[string]ports.Table)}
}

func (s *MemorySource) Put(datasetID, tableName string, t ports.Table) {
	s.tables[datasetID+"/"+tableName] = t
}

func (s *MemorySource) Read(ctx context.Context, datasetID, tableName string) (ports.Table, error) {
	t, ok := s.tables[datasetID+"/"+tableName]
	if !ok {
		return ports.Table{}, fmt.Errorf("memory source: no table %q in dataset %q", tableName, datasetID)
	}
	if len(t.Header) == 0 {
		return ports.Table{}, fmt.Errorf("memory source: table %q in dataset %q is empty", tableName, datasetID)
	}
	return t, nil
}
