package domain

import "fmt"

// Checkpoint is one of the five fixed times of day at which cumulative
// delivery counts are reported. The set is closed; iteration order is the
// chronological order returned by Checkpoints.
type Checkpoint string

const (
	Checkpoint1140am Checkpoint = "11:40am"
	Checkpoint140pm  Checkpoint = "1:40pm"
	Checkpoint340pm  Checkpoint = "3:40pm"
	Checkpoint540pm  Checkpoint = "5:40pm"
	Checkpoint740pm  Checkpoint = "7:40pm"
)

// Checkpoints returns all checkpoint labels in chronological order.
func Checkpoints() []Checkpoint {
	return []Checkpoint{
		Checkpoint1140am,
		Checkpoint140pm,
		Checkpoint340pm,
		Checkpoint540pm,
		Checkpoint740pm,
	}
}

func (c Checkpoint) Valid() bool {
	switch c {
	case Checkpoint1140am, Checkpoint140pm, Checkpoint340pm, Checkpoint540pm, Checkpoint740pm:
		return true
	}
	return false
}

// ParseCheckpoint converts a raw submission label into a Checkpoint.
func ParseCheckpoint(s string) (Checkpoint, error) {
	c := Checkpoint(s)
	if !c.Valid() {
		return "", fmt.Errorf("parse checkpoint: unknown label %q", s)
	}
	return c, nil
}

// PaceRecord holds the checkpoint delivery counts for one van on one date.
// A checkpoint absent from Counts is unknown/unreported; values present are
// cumulative non-negative counts. Counts only ever move forward within a
// date; retraction is not modeled.
type PaceRecord struct {
	VanID  string
	Date   string
	Counts map[Checkpoint]int
}

// NewPaceRecord returns an empty record (all checkpoints absent).
func NewPaceRecord(vanID, date string) PaceRecord {
	return PaceRecord{VanID: vanID, Date: date, Counts: map[Checkpoint]int{}}
}

// HasData reports whether at least one checkpoint has a value.
func (p PaceRecord) HasData() bool {
	return len(p.Counts) > 0
}

// ReportedCount returns how many of the five checkpoints have values.
func (p PaceRecord) ReportedCount() int {
	return len(p.Counts)
}

// Derived, non-authoritative aggregate over all pace records for one date.
// Recomputed on demand and written fresh each time, never updated in place.
type DailySummary struct {
	Date         string
	TotalVans    int
	VansWithData int
	// Averages holds the mean count per checkpoint across vans that
	// reported it; ReportCounts holds each checkpoint's denominator.
	// A checkpoint nobody reported appears in neither map.
	Averages     map[Checkpoint]float64
	ReportCounts map[Checkpoint]int
}
