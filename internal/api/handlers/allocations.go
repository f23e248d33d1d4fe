package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"fleet-allocation-service/internal/api/dto"
	"fleet-allocation-service/internal/domain"
	"fleet-allocation-service/internal/ports"
	"fleet-allocation-service/internal/services"
)

type AllocationHandler struct {
	Runner           *services.AllocationRunner
	Store            ports.HistoryStore
	Notifier         ports.Notifier
	RoutesTable      string
	AssignmentsTable string
	DefaultDataset   string
	DefaultPartner   string
	Log              *zap.Logger
}

// Run executes one allocation run end to end: read the uploaded tables,
// match routes to vans, append the batch to the historical log.
func (h *AllocationHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RunRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	date := time.Now()
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := time.Parse(domain.DateLayout, req.Date)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("date must be in %s format", domain.DateLayout))
			return
		}
		date = parsed
	}

	dataset := strings.TrimSpace(req.DatasetID)
	if dataset == "" {
		dataset = h.DefaultDataset
	}
	if dataset == "" {
		writeError(w, r, http.StatusBadRequest, "dataset_id is required")
		return
	}

	partner := strings.TrimSpace(req.PartnerFilter)
	if partner == "" {
		partner = h.DefaultPartner
	}

	svcReq := services.RunRequest{
		Date:             date,
		DatasetID:        dataset,
		RoutesTable:      h.RoutesTable,
		AssignmentsTable: h.AssignmentsTable,
		PartnerFilter:    partner,
	}

	result, err := h.Runner.Run(r.Context(), svcReq)
	if err != nil {
		h.respondRunError(w, r, domain.FormatDate(date), err)
		return
	}

	h.notify(r, ports.Event{
		Kind:     ports.EventRunCompleted,
		RunID:    result.RunID,
		Date:     result.Date,
		Message:  "allocation run completed",
		Appended: len(result.Appended),
	})

	writeJSON(w, r, http.StatusOK, runResponse(result))
}

// List returns the historical log rows for one date.
func (h *AllocationHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	records, err := h.Store.ReadForDate(r.Context(), date)
	if err != nil {
		h.Log.Error("list allocations failed", zap.String("date", date), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRecordsResponse{
		Date:    date,
		Records: make([]dto.HistoricalRecordResponse, 0, len(records)),
	}
	for _, rec := range records {
		cps := make(map[string]int, len(rec.Checkpoints))
		for cp, count := range rec.Checkpoints {
			cps[string(cp)] = count
		}
		res.Records = append(res.Records, dto.HistoricalRecordResponse{
			Date:          rec.Date,
			RouteCode:     rec.RouteCode,
			AssociateName: rec.AssociateName,
			AssetID:       rec.AssetID,
			VanID:         rec.VanID,
			IdentityKey:   rec.Key,
			Checkpoints:   cps,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// respondRunError maps run failures onto the error taxonomy: a duplicate
// batch is a 409 listing every offending key; a missing input names the
// element and is the caller's to fix; anything else stays generic.
func (h *AllocationHandler) respondRunError(w http.ResponseWriter, r *http.Request, date string, err error) {
	var dup *services.DuplicateBatchError
	if errors.As(err, &dup) {
		h.notify(r, ports.Event{
			Kind:          ports.EventBatchRejected,
			Date:          dup.Date,
			Message:       "append batch rejected",
			DuplicateKeys: dup.Keys,
		})
		writeJSON(w, r, http.StatusConflict, dto.RejectedResponse{
			Error:         "duplicate identity keys, no rows written",
			Date:          dup.Date,
			DuplicateKeys: dup.Keys,
		})
		return
	}

	var missing *services.MissingInputError
	if errors.As(err, &missing) {
		writeError(w, r, http.StatusUnprocessableEntity, missing.Error())
		return
	}

	var cfg *services.ConfigError
	if errors.As(err, &cfg) {
		h.Log.Error("run aborted by configuration", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, cfg.Error())
		return
	}

	h.Log.Error("allocation run failed", zap.String("date", date), zap.Error(err))
	h.notify(r, ports.Event{Kind: ports.EventRunFailed, Date: date, Message: err.Error()})
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func (h *AllocationHandler) notify(r *http.Request, event ports.Event) {
	if h.Notifier == nil {
		return
	}
	// Notification failures never fail the run that produced the event.
	if err := h.Notifier.Send(r.Context(), event); err != nil {
		h.Log.Warn("notify failed", zap.String("kind", string(event.Kind)), zap.Error(err))
	}
}

func runResponse(result *services.RunResult) dto.RunResponse {
	res := dto.RunResponse{
		RunID:            result.RunID,
		Date:             result.Date,
		Allocations:      make([]dto.AllocationResponse, 0, len(result.Allocations)),
		UnmatchedRoutes:  make([]dto.RouteResponse, 0, len(result.UnmatchedRoutes)),
		UnassignedVanIDs: result.UnassignedVanIDs,
		AppendedRows:     len(result.Appended),
	}

	for _, a := range result.Allocations {
		res.Allocations = append(res.Allocations, dto.AllocationResponse{
			RouteCode:       a.RouteCode,
			ServiceType:     a.ServiceType,
			PartnerCode:     a.PartnerCode,
			Wave:            a.Wave,
			StagingLocation: a.StagingLocation,
			VanID:           a.VanID,
			VanCategory:     string(a.VanCategory),
			Operational:     a.Operational,
			AssociateName:   a.AssociateName,
			IdentityKey:     a.Key(result.Date),
		})
	}

	for _, route := range result.UnmatchedRoutes {
		res.UnmatchedRoutes = append(res.UnmatchedRoutes, dto.RouteResponse{
			Code:            route.Code,
			ServiceType:     route.ServiceType,
			PartnerCode:     route.PartnerCode,
			Wave:            route.Wave,
			StagingLocation: route.StagingLocation,
		})
	}

	return res
}

func dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		return domain.FormatDate(time.Now()), true
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("date must be in %s format", domain.DateLayout))
		return "", false
	}
	return date, true
}
