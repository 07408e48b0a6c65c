package dto

import (
	"time"

	"github.com/eshaffer321/inventory-allocator/internal/domain/allocator"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/storage"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ShipmentResponse is the part of an order sent from one warehouse.
type ShipmentResponse struct {
	Warehouse string         `json:"warehouse"`
	Items     map[string]int `json:"items"`
}

// AllocateResponse is returned by POST /api/allocations.
// An order that cannot be fulfilled has fulfilled=false and no shipments.
type AllocateResponse struct {
	ID        string             `json:"id,omitempty"`
	Fulfilled bool               `json:"fulfilled"`
	Shipments []ShipmentResponse `json:"shipments"`
}

// AllocationResponse represents a recorded allocation.
type AllocationResponse struct {
	ID             string             `json:"id"`
	CreatedAt      string             `json:"created_at"`
	Source         string             `json:"source"`
	Fulfilled      bool               `json:"fulfilled"`
	Order          map[string]int     `json:"order"`
	Warehouses     []WarehouseRequest `json:"warehouses"`
	Shipments      []ShipmentResponse `json:"shipments"`
	WarehouseCount int                `json:"warehouse_count"`
	ShipmentCount  int                `json:"shipment_count"`
	UnitsRequested int                `json:"units_requested"`
	UnitsShipped   int                `json:"units_shipped"`
}

// AllocationListResponse is returned when listing allocations.
type AllocationListResponse struct {
	Allocations []AllocationResponse `json:"allocations"`
	TotalCount  int                  `json:"total_count"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

// StatsResponse is returned by GET /api/stats.
type StatsResponse struct {
	TotalAllocations int            `json:"total_allocations"`
	FulfilledCount   int            `json:"fulfilled_count"`
	UnfulfilledCount int            `json:"unfulfilled_count"`
	FulfillmentRate  float64        `json:"fulfillment_rate"`
	UnitsRequested   int            `json:"units_requested"`
	UnitsShipped     int            `json:"units_shipped"`
	SourceCounts     map[string]int `json:"source_counts"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewShipmentResponses converts shipments, always returning a non-nil slice.
func NewShipmentResponses(shipments []allocator.Shipment) []ShipmentResponse {
	out := make([]ShipmentResponse, 0, len(shipments))
	for _, s := range shipments {
		items := map[string]int(s.Items)
		if items == nil {
			items = map[string]int{}
		}
		out = append(out, ShipmentResponse{Warehouse: s.Warehouse, Items: items})
	}
	return out
}

// NewAllocationResponse converts a storage record to an API response.
func NewAllocationResponse(record *storage.AllocationRecord) AllocationResponse {
	response := AllocationResponse{
		ID:             record.ID,
		CreatedAt:      record.CreatedAt.UTC().Format(time.RFC3339),
		Source:         record.Source,
		Fulfilled:      record.Fulfilled,
		Order:          map[string]int(record.Order),
		Warehouses:     make([]WarehouseRequest, 0, len(record.Warehouses)),
		Shipments:      NewShipmentResponses(record.Shipments),
		WarehouseCount: record.WarehouseCount,
		ShipmentCount:  record.ShipmentCount,
		UnitsRequested: record.UnitsRequested,
		UnitsShipped:   record.UnitsShipped,
	}

	for _, w := range record.Warehouses {
		response.Warehouses = append(response.Warehouses, WarehouseRequest{
			Name:      w.Name,
			Inventory: map[string]int(w.Inventory),
		})
	}

	return response
}

// NewStatsResponse converts storage stats to an API response.
func NewStatsResponse(stats *storage.Stats) StatsResponse {
	return StatsResponse{
		TotalAllocations: stats.TotalAllocations,
		FulfilledCount:   stats.FulfilledCount,
		UnfulfilledCount: stats.UnfulfilledCount,
		FulfillmentRate:  stats.FulfillmentRate(),
		UnitsRequested:   stats.UnitsRequested,
		UnitsShipped:     stats.UnitsShipped,
		SourceCounts:     stats.SourceCounts,
	}
}
