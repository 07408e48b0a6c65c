package dto

import "github.com/eshaffer321/inventory-allocator/internal/domain/allocator"

// WarehouseRequest is one warehouse in an allocation request.
type WarehouseRequest struct {
	Name      string         `json:"name"`
	Inventory map[string]int `json:"inventory"`
}

// AllocateRequest is the body of POST /api/allocations.
// Warehouses must be sorted cheapest first.
type AllocateRequest struct {
	Order      map[string]int     `json:"order"`
	Warehouses []WarehouseRequest `json:"warehouses"`
	Compact    bool               `json:"compact"`
	Record     *bool              `json:"record,omitempty"` // default true
}

// ShouldRecord reports whether the request wants to be kept in history.
func (r AllocateRequest) ShouldRecord() bool {
	return r.Record == nil || *r.Record
}

// ToDomain converts the request into allocator inputs.
func (r AllocateRequest) ToDomain() (allocator.ItemQuantities, []allocator.Warehouse) {
	warehouses := make([]allocator.Warehouse, 0, len(r.Warehouses))
	for _, w := range r.Warehouses {
		warehouses = append(warehouses, allocator.Warehouse{
			Name:      w.Name,
			Inventory: allocator.ItemQuantities(w.Inventory),
		})
	}
	return allocator.ItemQuantities(r.Order), warehouses
}

// AllocationListParams represents query parameters for listing allocations.
type AllocationListParams struct {
	Fulfilled *bool  `json:"fulfilled"`
	Source    string `json:"source"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

// DefaultAllocationListParams returns default values for list params.
func DefaultAllocationListParams() AllocationListParams {
	return AllocationListParams{
		Limit:  50,
		Offset: 0,
	}
}
