package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"fleet-allocation-service/internal/api/dto"
	"fleet-allocation-service/internal/ports"
)

// RosterHandler exposes read-only fleet roster retrieval.
type RosterHandler struct {
	Source ports.RosterSource
}

func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	vehicles, err := h.Source.Read(r.Context())
	if err != nil {
		zap.L().Error("list roster failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRosterResponse{
		Vehicles: make([]dto.VehicleResponse, 0, len(vehicles)),
	}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, dto.VehicleResponse{
			VanID:    v.VanID,
			Category: string(v.Category),
			OpFlag:   v.OpFlag,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
