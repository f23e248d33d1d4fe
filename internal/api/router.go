package api

import (
	"net/http"

	"go.uber.org/zap"

	"fleet-allocation-service/internal/api/handlers"
	"fleet-allocation-service/internal/ports"
	"fleet-allocation-service/internal/services"
)

// Deps carries everything the HTTP surface needs. Handlers stay unaware of
// concrete adapters; composition happens in main.
type Deps struct {
	Log              *zap.Logger
	Roster           ports.RosterSource
	Store            ports.HistoryStore
	Notifier         ports.Notifier
	Runner           *services.AllocationRunner
	Tracker          *services.PaceTracker
	Aggregator       *services.PaceAggregator
	RoutesTable      string
	AssignmentsTable string
	DefaultDataset   string
	DefaultPartner   string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	rosterHandler := &handlers.RosterHandler{Source: deps.Roster}
	allocHandler := &handlers.AllocationHandler{
		Runner:           deps.Runner,
		Store:            deps.Store,
		Notifier:         deps.Notifier,
		RoutesTable:      deps.RoutesTable,
		AssignmentsTable: deps.AssignmentsTable,
		DefaultDataset:   deps.DefaultDataset,
		DefaultPartner:   deps.DefaultPartner,
		Log:              deps.Log,
	}
	paceHandler := &handlers.PaceHandler{
		Tracker:    deps.Tracker,
		Aggregator: deps.Aggregator,
		Store:      deps.Store,
		Log:        deps.Log,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/roster", rosterHandler.List)
	mux.HandleFunc("/allocations/run", allocHandler.Run)
	mux.HandleFunc("/allocations", allocHandler.List)
	mux.HandleFunc("/pace/submissions", paceHandler.Submit)
	mux.HandleFunc("/pace/summary", paceHandler.Summary)
	mux.HandleFunc("/pace/refresh", paceHandler.Refresh)

	return loggingMiddleware(deps.Log, mux)
}
