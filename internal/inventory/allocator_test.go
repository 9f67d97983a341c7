package inventory

import (
	"testing"

	"github.com/google/uuid"
)

func TestAllocatePriorityOrdering(t *testing.T) {
	t.Parallel()

	warehouseA := uuid.New()
	warehouseB := uuid.New()

	plan := Allocate(5,
		[]WarehouseRank{
			{ID: warehouseB, Priority: 2},
			{ID: warehouseA, Priority: 1},
		},
		[]Availability{
			{WarehouseID: warehouseA, AvailableQty: 3},
			{WarehouseID: warehouseB, AvailableQty: 10},
		},
	)

	if !plan.Fulfilled || plan.Shortfall != 0 {
		t.Fatalf("expected fulfilled plan, got %+v", plan)
	}
	if len(plan.Allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(plan.Allocations))
	}
	if plan.Allocations[0].WarehouseID != warehouseA || plan.Allocations[0].Quantity != 3 {
		t.Fatalf("expected 3 from higher-priority warehouse, got %+v", plan.Allocations[0])
	}
	if plan.Allocations[1].WarehouseID != warehouseB || plan.Allocations[1].Quantity != 2 {
		t.Fatalf("expected 2 from lower-priority warehouse, got %+v", plan.Allocations[1])
	}
}

func TestAllocateShortfall(t *testing.T) {
	t.Parallel()

	warehouseA := uuid.New()
	warehouseB := uuid.New()

	plan := Allocate(20,
		[]WarehouseRank{
			{ID: warehouseA, Priority: 1},
			{ID: warehouseB, Priority: 2},
		},
		[]Availability{
			{WarehouseID: warehouseA, AvailableQty: 2},
			{WarehouseID: warehouseB, AvailableQty: 3},
		},
	)

	if plan.Fulfilled {
		t.Fatalf("expected unfulfilled plan")
	}
	if plan.Shortfall != 15 {
		t.Fatalf("expected shortfall 15, got %d", plan.Shortfall)
	}
	assertConservation(t, plan)
}

func TestAllocateZeroRequest(t *testing.T) {
	t.Parallel()

	plan := Allocate(0, []WarehouseRank{{ID: uuid.New(), Priority: 1}}, nil)
	if !plan.Fulfilled || plan.Shortfall != 0 || len(plan.Allocations) != 0 {
		t.Fatalf("zero request must return empty fulfilled plan, got %+v", plan)
	}
}

func TestAllocateSkipsEmptyWarehouses(t *testing.T) {
	t.Parallel()

	empty := uuid.New()
	stocked := uuid.New()

	plan := Allocate(4,
		[]WarehouseRank{
			{ID: empty, Priority: 1},
			{ID: stocked, Priority: 2},
		},
		[]Availability{
			{WarehouseID: empty, AvailableQty: 0},
			{WarehouseID: stocked, AvailableQty: 9},
		},
	)

	if len(plan.Allocations) != 1 || plan.Allocations[0].WarehouseID != stocked {
		t.Fatalf("zero-stock warehouse must not appear in plan: %+v", plan.Allocations)
	}
	assertConservation(t, plan)
}

func TestAllocateTieBreakKeepsInputOrder(t *testing.T) {
	t.Parallel()

	first := uuid.New()
	second := uuid.New()

	plan := Allocate(6,
		[]WarehouseRank{
			{ID: first, Priority: 1},
			{ID: second, Priority: 1},
		},
		[]Availability{
			{WarehouseID: first, AvailableQty: 4},
			{WarehouseID: second, AvailableQty: 4},
		},
	)

	if plan.Allocations[0].WarehouseID != first || plan.Allocations[0].Quantity != 4 {
		t.Fatalf("tied priorities must drain input order first, got %+v", plan.Allocations)
	}
	if plan.Allocations[1].WarehouseID != second || plan.Allocations[1].Quantity != 2 {
		t.Fatalf("unexpected second allocation %+v", plan.Allocations[1])
	}
}

func TestAllocateConservationAcrossShapes(t *testing.T) {
	t.Parallel()

	warehouses := []WarehouseRank{
		{ID: uuid.New(), Priority: 3},
		{ID: uuid.New(), Priority: 1},
		{ID: uuid.New(), Priority: 2},
	}
	availability := []Availability{
		{WarehouseID: warehouses[0].ID, AvailableQty: 7},
		{WarehouseID: warehouses[1].ID, AvailableQty: 1},
		{WarehouseID: warehouses[2].ID, AvailableQty: 5},
	}

	for requested := 0; requested <= 20; requested++ {
		plan := Allocate(requested, warehouses, availability)
		assertConservation(t, plan)
	}
}

func assertConservation(t *testing.T, plan AllocationPlan) {
	t.Helper()
	total := 0
	for _, alloc := range plan.Allocations {
		if alloc.Quantity <= 0 {
			t.Fatalf("allocation with non-positive quantity: %+v", alloc)
		}
		total += alloc.Quantity
	}
	if total+plan.Shortfall != plan.Requested {
		t.Fatalf("conservation violated: allocated %d + shortfall %d != requested %d",
			total, plan.Shortfall, plan.Requested)
	}
	if plan.Fulfilled != (plan.Shortfall == 0) {
		t.Fatalf("fulfilled flag inconsistent with shortfall: %+v", plan)
	}
}
