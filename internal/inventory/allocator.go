package inventory

import (
	"sort"

	"github.com/google/uuid"
)

// WarehouseRank identifies a warehouse and its allocation priority. Lower
// priority numbers are drained first.
type WarehouseRank struct {
	ID       uuid.UUID
	Priority int
}

// Availability is the sellable quantity of one product in one warehouse.
type Availability struct {
	WarehouseID  uuid.UUID
	AvailableQty int
}

// Allocation assigns part of a requested quantity to one warehouse.
type Allocation struct {
	WarehouseID uuid.UUID
	Quantity    int
}

// AllocationPlan is the result of allocating one requested quantity across
// ranked warehouses. sum(Allocations) + Shortfall == Requested always holds.
type AllocationPlan struct {
	Requested   int
	Allocations []Allocation
	Fulfilled   bool
	Shortfall   int
}

// Allocate greedily assigns requested units across warehouses ordered by
// ascending priority. Ties keep input order. Warehouses contributing zero
// units never appear in the plan. Pure function, deterministic.
func Allocate(requested int, warehouses []WarehouseRank, availability []Availability) AllocationPlan {
	if requested <= 0 {
		return AllocationPlan{Requested: 0, Allocations: []Allocation{}, Fulfilled: true, Shortfall: 0}
	}

	ranked := make([]WarehouseRank, len(warehouses))
	copy(ranked, warehouses)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority < ranked[j].Priority
	})

	availableBy := make(map[uuid.UUID]int, len(availability))
	for _, avail := range availability {
		availableBy[avail.WarehouseID] += avail.AvailableQty
	}

	remaining := requested
	allocations := []Allocation{}
	for _, warehouse := range ranked {
		if remaining == 0 {
			break
		}
		available := availableBy[warehouse.ID]
		if available <= 0 {
			continue
		}
		take := remaining
		if available < take {
			take = available
		}
		allocations = append(allocations, Allocation{WarehouseID: warehouse.ID, Quantity: take})
		remaining -= take
	}

	return AllocationPlan{
		Requested:   requested,
		Allocations: allocations,
		Fulfilled:   remaining == 0,
		Shortfall:   remaining,
	}
}
