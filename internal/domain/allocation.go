package domain

import "time"

// DateLayout is the canonical date format for identity keys and the
// historical log: zero-padded month/day with a 4-digit year.
const DateLayout = "01/02/2006"

// FormatDate renders t in the canonical layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// The pairing of one route to one vehicle for one day.
// Created once per run and immutable afterwards; on a successful append it
// becomes one row of the historical log.
type Allocation struct {
	RouteCode       string
	ServiceType     string
	PartnerCode     string
	Wave            string
	StagingLocation string
	VanID           string
	VanCategory     Category
	Operational     bool
	AssociateName   string
}

// DeriveKey builds the composite duplicate-suppression key for one
// allocation: date, route code, associate name and van id joined by literal
// pipes. The date must already be in DateLayout. Fields are treated as
// opaque strings and embedded pipes are NOT escaped; a field legitimately
// containing '|' can collide or misparse. The format is frozen for
// comparability with previously persisted keys.
func DeriveKey(date, routeCode, associateName, vanID string) string {
	return date + "|" + routeCode + "|" + associateName + "|" + vanID
}

// Key derives the identity key for this allocation on the given date.
func (a Allocation) Key(date string) string {
	return DeriveKey(date, a.RouteCode, a.AssociateName, a.VanID)
}
