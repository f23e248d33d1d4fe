package services

import (
	"reflect"
	"testing"

	"fleet-allocation-service/internal/domain"
)

func TestMatchSingleRouteSingleVan(t *testing.T) {
	routes := []domain.Route{
		{Code: "CX9", ServiceType: "Standard Parcel - Large Van"},
	}
	fleet := PartitionFleet([]domain.Vehicle{
		{VanID: "BW1", Category: domain.CategoryLarge, OpFlag: "Y"},
	}, "Y")

	res := Match(routes, fleet, mustMapper(testMapping()))

	if len(res.Allocations) != 1 {
		t.Fatalf("expected 1 allocation, got %d", len(res.Allocations))
	}
	a := res.Allocations[0]
	if a.RouteCode != "CX9" || a.VanID != "BW1" {
		t.Fatalf("unexpected allocation %+v", a)
	}
	if a.VanCategory != domain.CategoryLarge || !a.Operational {
		t.Fatalf("allocation should copy van category and operational flag, got %+v", a)
	}
	if len(res.UnmatchedRoutes) != 0 {
		t.Fatalf("unmatched routes = %v, want none", res.UnmatchedRoutes)
	}
	if len(res.UnassignedVanIDs) != 0 {
		t.Fatalf("unassigned vans = %v, want none", res.UnassignedVanIDs)
	}
}

func TestMatchUnknownServiceTypeConsumesNothing(t *testing.T) {
	routes := []domain.Route{
		{Code: "CX9", ServiceType: "Unknown Service"},
	}
	fleet := PartitionFleet([]domain.Vehicle{
		{VanID: "BW1", Category: domain.CategoryLarge, OpFlag: "Y"},
	}, "Y")

	res := Match(routes, fleet, mustMapper(testMapping()))

	if len(res.Allocations) != 0 {
		t.Fatalf("expected no allocations, got %v", res.Allocations)
	}
	if len(res.UnmatchedRoutes) != 1 || res.UnmatchedRoutes[0].Code != "CX9" {
		t.Fatalf("unmatched routes = %v", res.UnmatchedRoutes)
	}
	if !reflect.DeepEqual(res.UnassignedVanIDs, []string{"BW1"}) {
		t.Fatalf("vehicle should not be consumed, unassigned = %v", res.UnassignedVanIDs)
	}
}

func TestMatchFirstRouteWinsContestedVan(t *testing.T) {
	routes := []domain.Route{
		{Code: "CX1", ServiceType: "Standard Parcel - Large Van"},
		{Code: "CX2", ServiceType: "Standard Parcel - Large Van"},
	}
	fleet := PartitionFleet([]domain.Vehicle{
		{VanID: "BW1", Category: domain.CategoryLarge, OpFlag: "Y"},
	}, "Y")

	res := Match(routes, fleet, mustMapper(testMapping()))

	if len(res.Allocations) != 1 || res.Allocations[0].RouteCode != "CX1" {
		t.Fatalf("first route by input order should win, got %v", res.Allocations)
	}
	if len(res.UnmatchedRoutes) != 1 || res.UnmatchedRoutes[0].Code != "CX2" {
		t.Fatalf("unmatched routes = %v", res.UnmatchedRoutes)
	}
}

func TestMatchFIFOWithinCategory(t *testing.T) {
	routes := []domain.Route{
		{Code: "CX1", ServiceType: "Standard Parcel - Large Van"},
		{Code: "CX2", ServiceType: "Standard Parcel - Large Van"},
		{Code: "CX3", ServiceType: "Standard Parcel Step Van - US"},
	}
	fleet := PartitionFleet([]domain.Vehicle{
		{VanID: "SV1", Category: domain.CategoryStepVan, OpFlag: "Y"},
		{VanID: "BW7", Category: domain.CategoryLarge, OpFlag: "Y"},
		{VanID: "BW2", Category: domain.CategoryLarge, OpFlag: "Y"},
	}, "Y")

	res := Match(routes, fleet, mustMapper(testMapping()))

	want := map[string]string{"CX1": "BW7", "CX2": "BW2", "CX3": "SV1"}
	for _, a := range res.Allocations {
		if want[a.RouteCode] != a.VanID {
			t.Fatalf("route %s got %s, want %s", a.RouteCode, a.VanID, want[a.RouteCode])
		}
	}
}

func TestMatchDeterministic(t *testing.T) {
	routes := []domain.Route{
		{Code: "CX1", ServiceType: "Standard Parcel - Large Van"},
		{Code: "CX2", ServiceType: "Standard Parcel - Extra Large Van - US"},
		{Code: "CX3", ServiceType: "Standard Parcel - Large Van"},
		{Code: "CX4", ServiceType: "Nursery Route Level 2"},
	}
	vehicles := []domain.Vehicle{
		{VanID: "XL1", Category: domain.CategoryExtraLarge, OpFlag: "Y"},
		{VanID: "BW1", Category: domain.CategoryLarge, OpFlag: "Y"},
		{VanID: "BW2", Category: domain.CategoryLarge, OpFlag: "Y"},
		{VanID: "BW3", Category: domain.CategoryLarge, OpFlag: "Y"},
		{VanID: "SV1", Category: domain.CategoryStepVan, OpFlag: "Y"},
	}
	mapper := mustMapper(testMapping())

	first := Match(routes, PartitionFleet(vehicles, "Y"), mapper)
	for i := 0; i < 20; i++ {
		next := Match(routes, PartitionFleet(vehicles, "Y"), mapper)
		if !reflect.DeepEqual(first, next) {
			t.Fatalf("non-deterministic result in iteration %d", i)
		}
	}
}

func TestMatchNoDoubleBooking(t *testing.T) {
	routes := []domain.Route{
		{Code: "CX1", ServiceType: "Standard Parcel - Large Van"},
		{Code: "CX2", ServiceType: "Standard Parcel - Large Van"},
		{Code: "CX3", ServiceType: "Standard Parcel - Large Van"},
		{Code: "CX4", ServiceType: "Standard Parcel Step Van - US"},
	}
	fleet := PartitionFleet([]domain.Vehicle{
		{VanID: "BW1", Category: domain.CategoryLarge, OpFlag: "Y"},
		{VanID: "BW2", Category: domain.CategoryLarge, OpFlag: "Y"},
		{VanID: "SV1", Category: domain.CategoryStepVan, OpFlag: "Y"},
	}, "Y")
	mapper := mustMapper(testMapping())

	res := Match(routes, fleet, mapper)

	seenVans := map[string]bool{}
	seenRoutes := map[string]bool{}
	for _, a := range res.Allocations {
		if seenVans[a.VanID] {
			t.Fatalf("van %s allocated twice", a.VanID)
		}
		if seenRoutes[a.RouteCode] {
			t.Fatalf("route %s allocated twice", a.RouteCode)
		}
		seenVans[a.VanID] = true
		seenRoutes[a.RouteCode] = true

		// Category correctness: the allocated van's category is exactly
		// what the service type resolves to.
		category, ok := mapper.Resolve(a.ServiceType)
		if !ok || category != a.VanCategory {
			t.Fatalf("allocation %+v category mismatch", a)
		}
	}
}
