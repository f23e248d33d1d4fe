package dto

type RunRequest struct {
	// Date in MM/DD/YYYY; empty means today.
	Date          string `json:"date"`
	DatasetID     string `json:"dataset_id"`
	PartnerFilter string `json:"partner_filter"`
}

type RouteResponse struct {
	Code            string `json:"code"`
	ServiceType     string `json:"service_type"`
	PartnerCode     string `json:"partner_code"`
	Wave            string `json:"wave"`
	StagingLocation string `json:"staging_location"`
}

type AllocationResponse struct {
	RouteCode       string `json:"route_code"`
	ServiceType     string `json:"service_type"`
	PartnerCode     string `json:"partner_code"`
	Wave            string `json:"wave"`
	StagingLocation string `json:"staging_location"`
	VanID           string `json:"van_id"`
	VanCategory     string `json:"van_category"`
	Operational     bool   `json:"operational"`
	AssociateName   string `json:"associate_name"`
	IdentityKey     string `json:"identity_key"`
}

type RunResponse struct {
	RunID            string               `json:"run_id"`
	Date             string               `json:"date"`
	Allocations      []AllocationResponse `json:"allocations"`
	UnmatchedRoutes  []RouteResponse      `json:"unmatched_routes"`
	UnassignedVanIDs []string             `json:"unassigned_van_ids"`
	AppendedRows     int                  `json:"appended_rows"`
}

type RejectedResponse struct {
	Error         string   `json:"error"`
	Date          string   `json:"date"`
	DuplicateKeys []string `json:"duplicate_keys"`
}

type HistoricalRecordResponse struct {
	Date          string         `json:"date"`
	RouteCode     string         `json:"route_code"`
	AssociateName string         `json:"associate_name"`
	AssetID       string         `json:"asset_id"`
	VanID         string         `json:"van_id"`
	IdentityKey   string         `json:"identity_key"`
	Checkpoints   map[string]int `json:"checkpoints"`
}

type ListRecordsResponse struct {
	Date    string                     `json:"date"`
	Records []HistoricalRecordResponse `json:"records"`
}
