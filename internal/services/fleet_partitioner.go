package services

import "fleet-allocation-service/internal/domain"

// PartitionFleet filters the roster to operational vehicles and groups the
// survivors by category.
//
// Operational means the raw flag equals the sentinel exactly; "N", empty and
// malformed values are all non-operational. Relative roster order is
// preserved within each category; the matcher pops these queues FIFO, so
// the grouping order decides tie-breaks. The input slice is not mutated.
func PartitionFleet(vehicles []domain.Vehicle, operationalSentinel string) map[domain.Category][]domain.Vehicle {
	fleet := make(map[domain.Category][]domain.Vehicle)
	for _, v := range vehicles {
		if v.OpFlag != operationalSentinel {
			continue
		}
		fleet[v.Category] = append(fleet[v.Category], v)
	}
	return fleet
}
