package dto

type VehicleResponse struct {
	VanID    string `json:"van_id"`
	Category string `json:"category"`
	OpFlag   string `json:"op_flag"`
}

type ListRosterResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}
