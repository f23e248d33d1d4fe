package services

import "fleet-allocation-service/internal/domain"

// MatchResult reports one matching pass. Misses are data, not errors:
// unmatched routes and leftover vans are expected outcomes surfaced to the
// operator, never raised.
type MatchResult struct {
	Allocations      []domain.Allocation
	UnmatchedRoutes  []domain.Route
	UnassignedVanIDs []string
}

// Match assigns at most one vehicle per route, first-come-first-served
// within a category.
//
// Routes are processed in input order. Each route's required category comes
// from the mapper; an unresolved service type or an exhausted category queue
// records the route as unmatched and moves on. Within a category the first
// vehicle listed in the roster gets the first route requiring it (FIFO), so
// for a fixed route order and roster order the output is byte-identical
// across runs. There is no reassignment or optimization pass. O(R + V).
//
// The fleet map is read through per-category cursors and left unmodified.
func Match(routes []domain.Route, fleet map[domain.Category][]domain.Vehicle, mapper *CategoryMapper) MatchResult {
	res := MatchResult{
		Allocations:      make([]domain.Allocation, 0, len(routes)),
		UnmatchedRoutes:  []domain.Route{},
		UnassignedVanIDs: []string{},
	}

	// Head position per category queue.
	next := make(map[domain.Category]int, len(fleet))

	for _, route := range routes {
		category, ok := mapper.Resolve(route.ServiceType)
		if !ok {
			res.UnmatchedRoutes = append(res.UnmatchedRoutes, route)
			continue
		}

		queue := fleet[category]
		if next[category] >= len(queue) {
			res.UnmatchedRoutes = append(res.UnmatchedRoutes, route)
			continue
		}

		van := queue[next[category]]
		next[category]++

		res.Allocations = append(res.Allocations, domain.Allocation{
			RouteCode:       route.Code,
			ServiceType:     route.ServiceType,
			PartnerCode:     route.PartnerCode,
			Wave:            route.Wave,
			StagingLocation: route.StagingLocation,
			VanID:           van.VanID,
			VanCategory:     van.Category,
			Operational:     true,
		})
	}

	// Whatever is still queued after the pass is unassigned for this run,
	// reported in category display order then roster order.
	for _, category := range domain.Categories() {
		queue := fleet[category]
		for i := next[category]; i < len(queue); i++ {
			res.UnassignedVanIDs = append(res.UnassignedVanIDs, queue[i].VanID)
		}
	}

	return res
}
