package allocator

// Allocate computes the shipments needed to fulfill order from warehouses,
// which must already be sorted by ascending shipping cost.
//
// Every visited warehouse yields a shipment, even one that contributes no
// items; use Compact to drop those. Warehouses after the one that completes
// the order are not visited.
//
// Returns an empty slice if order or warehouses is empty, or if the
// warehouses together cannot cover every unit of the order. Neither input is
// modified.
func Allocate(order ItemQuantities, warehouses []Warehouse) []Shipment {
	if len(order) == 0 || len(warehouses) == 0 {
		return []Shipment{}
	}

	remaining := order.Clone()
	// Count outstanding items rather than units so huge orders cannot overflow
	pending := 0
	for _, qty := range remaining {
		if qty > 0 {
			pending++
		}
	}

	shipments := make([]Shipment, 0, len(warehouses))

	for _, warehouse := range warehouses {
		if pending == 0 {
			break
		}

		allocated := make(ItemQuantities)
		for item, stock := range warehouse.Inventory {
			if stock <= 0 {
				continue
			}
			needed, ok := remaining[item]
			if !ok || needed <= 0 {
				continue
			}

			qty := min(needed, stock)
			allocated[item] = qty
			remaining[item] -= qty
			if remaining[item] == 0 {
				pending--
			}
		}

		shipments = append(shipments, Shipment{
			Warehouse: warehouse.Name,
			Items:     allocated,
		})
	}

	if pending != 0 {
		return []Shipment{}
	}
	return shipments
}

// Compact returns the shipments that carry at least one item.
// The input slice is left untouched.
func Compact(shipments []Shipment) []Shipment {
	compacted := make([]Shipment, 0, len(shipments))
	for _, s := range shipments {
		if s.IsEmpty() {
			continue
		}
		compacted = append(compacted, s)
	}
	return compacted
}

// ShippedQuantities sums each item across all shipments.
func ShippedQuantities(shipments []Shipment) ItemQuantities {
	shipped := make(ItemQuantities)
	for _, s := range shipments {
		for item, qty := range s.Items {
			shipped[item] += qty
		}
	}
	return shipped
}
