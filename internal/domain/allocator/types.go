package allocator

import (
	"log/slog"
	"math"
	"sort"
)

// ItemQuantities maps an item name to a quantity.
// In an order it is the quantity needed; in an inventory it is the quantity in
// stock, where zero or negative means none available.
type ItemQuantities map[string]int

// Total returns the sum of all quantities.
func (q ItemQuantities) Total() int {
	var total int
	for _, qty := range q {
		total += qty
	}
	return total
}

// CheckedTotal is Total with overflow detection. ok is false when the sum
// does not fit in an int.
func (q ItemQuantities) CheckedTotal() (total int, ok bool) {
	for _, qty := range q {
		if (qty > 0 && total > math.MaxInt-qty) || (qty < 0 && total < math.MinInt-qty) {
			return 0, false
		}
		total += qty
	}
	return total, true
}

// Clone returns a copy that can be modified without touching q.
func (q ItemQuantities) Clone() ItemQuantities {
	clone := make(ItemQuantities, len(q))
	for item, qty := range q {
		clone[item] = qty
	}
	return clone
}

// LogValue logs the quantities as a group sorted by item name.
func (q ItemQuantities) LogValue() slog.Value {
	items := make([]string, 0, len(q))
	for item := range q {
		items = append(items, item)
	}
	sort.Strings(items)

	attrs := make([]slog.Attr, len(items))
	for i, item := range items {
		attrs[i] = slog.Int(item, q[item])
	}
	return slog.GroupValue(attrs...)
}

// Warehouse is a named stock location.
// Its position in the list passed to Allocate is its priority.
type Warehouse struct {
	Name      string         `json:"name" yaml:"name"`
	Inventory ItemQuantities `json:"inventory" yaml:"inventory"`
}

// Shipment is the part of an order sent from one warehouse.
type Shipment struct {
	Warehouse string         `json:"warehouse" yaml:"warehouse"`
	Items     ItemQuantities `json:"items" yaml:"items"`
}

// IsEmpty reports whether the shipment carries no items.
func (s Shipment) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s Shipment) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("warehouse", s.Warehouse),
		slog.Any("items", s.Items),
	)
}
