package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"fleet-allocation-service/internal/api/dto"
	"fleet-allocation-service/internal/ports"
	"fleet-allocation-service/internal/services"
)

type PaceHandler struct {
	Tracker    *services.PaceTracker
	Aggregator *services.PaceAggregator
	Store      ports.HistoryStore
	Log        *zap.Logger
}

// Submit records one driver checkpoint submission. A malformed submission
// is rejected alone; nothing else is affected.
func (h *PaceHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SubmissionRequest

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

	sub := services.PaceSubmission{
		VanID: req.VanID,
		Date:  req.Date,
		Label: req.Checkpoint,
		Count: req.Count,
	}

	if err := h.Tracker.Submit(r.Context(), sub); err != nil {
		var malformed *services.MalformedSubmissionError
		if errors.As(err, &malformed) {
			writeError(w, r, http.StatusBadRequest, malformed.Error())
			return
		}
		h.Log.Error("pace submit failed", zap.String("van_id", req.VanID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Summary returns the daily pace aggregate plus per-van progress.
func (h *PaceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	res, err := h.summarize(w, r, date, false)
	if err != nil {
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Refresh re-resolves pace from all sources and writes the derived counts
// back onto the historical log's checkpoint columns.
func (h *PaceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	res, err := h.summarize(w, r, date, true)
	if err != nil {
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// summarize resolves pace for every allocated van on a date. Any error has
// already been written to the response when non-nil is returned.
func (h *PaceHandler) summarize(w http.ResponseWriter, r *http.Request, date string, writeBack bool) (dto.SummaryResponse, error) {
	ctx := r.Context()

	rows, err := h.Store.ReadForDate(ctx, date)
	if err != nil {
		h.Log.Error("pace summary failed", zap.String("date", date), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return dto.SummaryResponse{}, err
	}

	vanIDs := make([]string, 0, len(rows))
	for _, rec := range rows {
		vanIDs = append(vanIDs, rec.VanID)
	}

	records := h.Aggregator.ResolveAll(ctx, vanIDs, date)

	if writeBack {
		if err := h.Aggregator.WriteBack(ctx, h.Store, records); err != nil {
			h.Log.Error("pace write-back failed", zap.String("date", date), zap.Error(err))
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return dto.SummaryResponse{}, err
		}
	}

	summary := services.Summarize(date, records)

	res := dto.SummaryResponse{
		Date:         summary.Date,
		TotalVans:    summary.TotalVans,
		VansWithData: summary.VansWithData,
		Averages:     make(map[string]float64, len(summary.Averages)),
		ReportCounts: make(map[string]int, len(summary.ReportCounts)),
		Vans:         make([]dto.VanPaceResponse, 0, len(records)),
	}
	for cp, avg := range summary.Averages {
		res.Averages[string(cp)] = avg
	}
	for cp, n := range summary.ReportCounts {
		res.ReportCounts[string(cp)] = n
	}

	for _, rec := range records {
		progress, err := services.ProgressFor(ctx, true, rec.ReportedCount())
		if err != nil {
			h.Log.Error("progress replay failed", zap.String("van_id", rec.VanID), zap.Error(err))
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return dto.SummaryResponse{}, err
		}

		cps := make(map[string]int, len(rec.Counts))
		for cp, count := range rec.Counts {
			cps[string(cp)] = count
		}
		res.Vans = append(res.Vans, dto.VanPaceResponse{
			VanID:       rec.VanID,
			Progress:    progress.State(),
			Checkpoints: cps,
		})
	}

	return res, nil
}
