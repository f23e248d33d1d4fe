package domain

// Represents a single delivery route needing one vehicle for one day.
// Routes are read fresh from an uploaded dataset each run and never mutated;
// they are not persisted on their own, only absorbed into allocation output.
type Route struct {
	Code            string
	ServiceType     string
	PartnerCode     string
	Wave            string
	StagingLocation string
}
