package keyindex

import (
	"context"
	"sync"
)

// In-memory implementation of the KeyIndex port: a map from date to the set
// of identity keys seen for that date. The zero-dependency default when no
// Redis is configured.
type MemoryKeyIndex struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
}

func NewMemoryKeyIndex() *MemoryKeyIndex {
	return &MemoryKeyIndex{sets: make(map[string]map[string]struct{})}
}

func (m *MemoryKeyIndex) Members(ctx context.Context, date string) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]struct{}, len(m.sets[date]))
	for k := range m.sets[date] {
		out[k] = struct{}{}
	}
	return out, nil
}

func (m *MemoryKeyIndex) Add(ctx context.Context, date string, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[date]
	if !ok {
		set = make(map[string]struct{}, len(keys))
		m.sets[date] = set
	}
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return nil
}
