package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fleet-allocation-service/internal/domain"
	"fleet-allocation-service/internal/ports"
)

// Column headers expected in the uploaded route and driver-assignment
// tables. These follow the upstream export format, not anything we control.
const (
	colRouteCode       = "Route Code"
	colServiceType     = "Service Type"
	colPartner         = "Partner"
	colWave            = "Wave"
	colStagingLocation = "Staging Location"
	colAssociateName   = "Associate Name"
)

type RunRequest struct {
	Date             time.Time
	DatasetID        string
	RoutesTable      string
	AssignmentsTable string
	// PartnerFilter restricts which routes are offered to the matcher.
	// Empty means no restriction.
	PartnerFilter string
}

// RunResult is the full outcome of one allocation run. Unmatched routes and
// unassigned vans are expected outcomes, reported here rather than raised.
type RunResult struct {
	RunID            string
	Date             string
	Allocations      []domain.Allocation
	Appended         []domain.HistoricalRecord
	UnmatchedRoutes  []domain.Route
	UnassignedVanIDs []string
}

// AllocationRunner wires the full pipeline for one dispatch day: uploaded
// route data in, matched and persisted allocations out.
type AllocationRunner struct {
	Tabular  ports.TabularSource
	Roster   ports.RosterSource
	Mapper   *CategoryMapper
	Engine   *AppendEngine
	Sentinel string
	Log      *zap.Logger
}

// Run executes one single-pass allocation run, run-to-completion.
//
// All inputs are materialized before matching begins; validation failures
// abort the run with the missing element named and no side effects. A
// duplicate-key rejection from the append engine propagates as a
// *DuplicateBatchError with zero rows written, so the operator can
// investigate and re-run.
func (r *AllocationRunner) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	runID := uuid.NewString()
	date := domain.FormatDate(req.Date)

	log := r.Log.With(zap.String("run_id", runID), zap.String("date", date))
	log.Info("allocation run started",
		zap.String("dataset", req.DatasetID),
		zap.String("partner_filter", req.PartnerFilter),
	)

	routes, err := r.readRoutes(ctx, req)
	if err != nil {
		return nil, err
	}

	assignments, err := r.readAssignments(ctx, req)
	if err != nil {
		return nil, err
	}

	vehicles, err := r.Roster.Read(ctx)
	if err != nil {
		return nil, &MissingInputError{Dataset: "roster", Element: "vehicles", Cause: err}
	}
	if len(vehicles) == 0 {
		return nil, &MissingInputError{Dataset: "roster", Element: "vehicles"}
	}

	fleet := PartitionFleet(vehicles, r.Sentinel)
	matched := Match(routes, fleet, r.Mapper)

	// Associate names live in a separate dataset keyed by route code and
	// are resolved after matching; a route without an assignment keeps an
	// empty name (the key stays derivable either way).
	for i := range matched.Allocations {
		matched.Allocations[i].AssociateName = assignments[matched.Allocations[i].RouteCode]
	}

	appended, err := r.Engine.AppendAllocations(ctx, date, matched.Allocations)
	if err != nil {
		return nil, err
	}

	log.Info("allocation run completed",
		zap.Int("routes", len(routes)),
		zap.Int("allocated", len(matched.Allocations)),
		zap.Int("unmatched_routes", len(matched.UnmatchedRoutes)),
		zap.Int("unassigned_vans", len(matched.UnassignedVanIDs)),
	)

	return &RunResult{
		RunID:            runID,
		Date:             date,
		Allocations:      matched.Allocations,
		Appended:         appended,
		UnmatchedRoutes:  matched.UnmatchedRoutes,
		UnassignedVanIDs: matched.UnassignedVanIDs,
	}, nil
}

func (r *AllocationRunner) readRoutes(ctx context.Context, req RunRequest) ([]domain.Route, error) {
	table, err := r.Tabular.Read(ctx, req.DatasetID, req.RoutesTable)
	if err != nil {
		return nil, &MissingInputError{Dataset: req.DatasetID, Element: req.RoutesTable, Cause: err}
	}

	cols := map[string]int{}
	for _, name := range []string{colRouteCode, colServiceType, colPartner, colWave, colStagingLocation} {
		idx := table.Col(name)
		if idx < 0 {
			return nil, &MissingInputError{Dataset: req.DatasetID, Element: req.RoutesTable + " column " + name}
		}
		cols[name] = idx
	}

	routes := make([]domain.Route, 0, len(table.Rows))
	for _, row := range table.Rows {
		route := domain.Route{
			Code:            strings.TrimSpace(cell(row, cols[colRouteCode])),
			ServiceType:     strings.TrimSpace(cell(row, cols[colServiceType])),
			PartnerCode:     strings.TrimSpace(cell(row, cols[colPartner])),
			Wave:            strings.TrimSpace(cell(row, cols[colWave])),
			StagingLocation: strings.TrimSpace(cell(row, cols[colStagingLocation])),
		}
		if route.Code == "" {
			continue
		}
		if req.PartnerFilter != "" && route.PartnerCode != req.PartnerFilter {
			continue
		}
		routes = append(routes, route)
	}

	if len(routes) == 0 {
		return nil, &MissingInputError{
			Dataset: req.DatasetID,
			Element: fmt.Sprintf("%s (no routes for partner %q)", req.RoutesTable, req.PartnerFilter),
		}
	}
	return routes, nil
}

func (r *AllocationRunner) readAssignments(ctx context.Context, req RunRequest) (map[string]string, error) {
	table, err := r.Tabular.Read(ctx, req.DatasetID, req.AssignmentsTable)
	if err != nil {
		return nil, &MissingInputError{Dataset: req.DatasetID, Element: req.AssignmentsTable, Cause: err}
	}

	routeCol := table.Col(colRouteCode)
	nameCol := table.Col(colAssociateName)
	if routeCol < 0 || nameCol < 0 {
		return nil, &MissingInputError{
			Dataset: req.DatasetID,
			Element: fmt.Sprintf("%s columns %q/%q", req.AssignmentsTable, colRouteCode, colAssociateName),
		}
	}

	assignments := make(map[string]string, len(table.Rows))
	for _, row := range table.Rows {
		code := strings.TrimSpace(cell(row, routeCol))
		if code == "" {
			continue
		}
		// First assignment per route code wins; later rows are ignored.
		if _, ok := assignments[code]; ok {
			continue
		}
		assignments[code] = strings.TrimSpace(cell(row, nameCol))
	}
	return assignments, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
