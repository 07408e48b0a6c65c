package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/inventory-allocator/internal/domain/allocator"
)

// Record sources
const (
	SourceAPI = "api"
	SourceCLI = "cli"
)

// AllocationRecord is one allocator run: what was asked, what was available,
// and what was shipped.
type AllocationRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
	Fulfilled bool      `json:"fulfilled"`

	Order      allocator.ItemQuantities `json:"order"`
	Warehouses []allocator.Warehouse    `json:"warehouses"`
	Shipments  []allocator.Shipment     `json:"shipments"`

	// Summary columns, derived by NewAllocationRecord
	WarehouseCount int `json:"warehouse_count"`
	ShipmentCount  int `json:"shipment_count"`
	UnitsRequested int `json:"units_requested"`
	UnitsShipped   int `json:"units_shipped"`
}

// NewAllocationRecord builds a record with a fresh ID and derived counts.
func NewAllocationRecord(source string, order allocator.ItemQuantities, warehouses []allocator.Warehouse, shipments []allocator.Shipment) *AllocationRecord {
	return &AllocationRecord{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		Source:         source,
		Fulfilled:      len(shipments) > 0,
		Order:          order,
		Warehouses:     warehouses,
		Shipments:      shipments,
		WarehouseCount: len(warehouses),
		ShipmentCount:  len(shipments),
		UnitsRequested: order.Total(),
		UnitsShipped:   allocator.ShippedQuantities(shipments).Total(),
	}
}

// Clone returns a deep copy of r. Nil maps and slices stay nil.
func (r *AllocationRecord) Clone() *AllocationRecord {
	clone := *r
	clone.Order = cloneQuantities(r.Order)
	if r.Warehouses != nil {
		clone.Warehouses = make([]allocator.Warehouse, len(r.Warehouses))
		for i, w := range r.Warehouses {
			clone.Warehouses[i] = allocator.Warehouse{Name: w.Name, Inventory: cloneQuantities(w.Inventory)}
		}
	}
	if r.Shipments != nil {
		clone.Shipments = make([]allocator.Shipment, len(r.Shipments))
		for i, s := range r.Shipments {
			clone.Shipments[i] = allocator.Shipment{Warehouse: s.Warehouse, Items: cloneQuantities(s.Items)}
		}
	}
	return &clone
}

func cloneQuantities(q allocator.ItemQuantities) allocator.ItemQuantities {
	if q == nil {
		return nil
	}
	return q.Clone()
}

// Stats contains aggregate allocation statistics
type Stats struct {
	TotalAllocations int            `json:"total_allocations"`
	FulfilledCount   int            `json:"fulfilled_count"`
	UnfulfilledCount int            `json:"unfulfilled_count"`
	UnitsRequested   int            `json:"units_requested"`
	UnitsShipped     int            `json:"units_shipped"`
	SourceCounts     map[string]int `json:"source_counts"`
}

// FulfillmentRate returns the fulfilled share in percent (0 when empty)
func (s *Stats) FulfillmentRate() float64 {
	if s.TotalAllocations == 0 {
		return 0
	}
	return float64(s.FulfilledCount) / float64(s.TotalAllocations) * 100
}
