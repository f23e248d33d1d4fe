package ports

import "context"

// Port: a per-date index of identity keys already present in the historical
// log, so the append engine's duplicate lookup is O(1) amortized instead of
// a log scan per run.
//
// The index is a cache over the log, never authoritative: it can be rebuilt
// from HistoryStore.ReadForDate at any time.
type KeyIndex interface {
	// Members returns the set of identity keys indexed for date.
	Members(ctx context.Context, date string) (map[string]struct{}, error)

	// Add records keys under date.
	Add(ctx context.Context, date string, keys []string) error
}
