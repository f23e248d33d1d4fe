package domain

// One persisted row of the growing, cumulative log of all allocations ever
// made. Rows are append-only and never deleted; only the checkpoint values
// are filled in progressively as the day advances.
//
// Key uniqueness across the entire log is the single global consistency
// invariant the system enforces (see the append engine).
type HistoricalRecord struct {
	Date          string
	RouteCode     string
	AssociateName string
	AssetID       string
	VanID         string
	Key           string
	Checkpoints   map[Checkpoint]int
}

// DerivedKey recomputes the identity key from the record's own fields.
// For every record the append engine writes, this equals Key exactly.
func (r HistoricalRecord) DerivedKey() string {
	return DeriveKey(r.Date, r.RouteCode, r.AssociateName, r.VanID)
}

// NewHistoricalRecord absorbs one allocation into a log row for the given
// date, deriving the identity key with the canonical formatting rules.
func NewHistoricalRecord(date string, a Allocation) HistoricalRecord {
	return HistoricalRecord{
		Date:          date,
		RouteCode:     a.RouteCode,
		AssociateName: a.AssociateName,
		VanID:         a.VanID,
		Key:           a.Key(date),
		Checkpoints:   map[Checkpoint]int{},
	}
}
