package allocator

import "fmt"

// Verify checks that shipments is a valid fulfillment of order from warehouses.
//
// An empty shipment list is always valid: it is the "cannot fulfill" outcome.
// Otherwise:
//   - shipments must follow the warehouse priority order (empty shipments may
//     be missing, as after Compact)
//   - no shipment may take more of an item than its warehouse had in stock
//   - every item must be shipped in exactly the ordered quantity
func Verify(order ItemQuantities, warehouses []Warehouse, shipments []Shipment) error {
	if len(shipments) == 0 {
		return nil
	}

	next := 0
	for i, s := range shipments {
		idx := -1
		for j := next; j < len(warehouses); j++ {
			if warehouses[j].Name == s.Warehouse {
				idx = j
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("shipment %d: warehouse %q not found after position %d", i, s.Warehouse, next)
		}
		next = idx + 1

		stock := warehouses[idx].Inventory
		for item, qty := range s.Items {
			if qty <= 0 {
				return fmt.Errorf("shipment %d (%s): non-positive quantity %d for %q", i, s.Warehouse, qty, item)
			}
			if qty > stock[item] {
				return fmt.Errorf("shipment %d (%s): ships %d of %q but only %d in stock", i, s.Warehouse, qty, item, stock[item])
			}
		}
	}

	shipped := ShippedQuantities(shipments)
	for item, want := range order {
		if got := shipped[item]; got != want {
			return fmt.Errorf("item %q: shipped %d, ordered %d", item, got, want)
		}
	}
	for item, got := range shipped {
		if _, ok := order[item]; !ok {
			return fmt.Errorf("item %q: shipped %d but not ordered", item, got)
		}
	}

	return nil
}
