package dto

type SubmissionRequest struct {
	VanID      string `json:"van_id"`
	Date       string `json:"date"`
	Checkpoint string `json:"checkpoint"`
	Count      string `json:"count"`
}

type VanPaceResponse struct {
	VanID       string         `json:"van_id"`
	Progress    string         `json:"progress"`
	Checkpoints map[string]int `json:"checkpoints"`
}

type SummaryResponse struct {
	Date         string             `json:"date"`
	TotalVans    int                `json:"total_vans"`
	VansWithData int                `json:"vans_with_data"`
	Averages     map[string]float64 `json:"averages"`
	ReportCounts map[string]int     `json:"report_counts"`
	Vans         []VanPaceResponse  `json:"vans"`
}
