// Package validator checks allocation requests before they reach the allocator.
//
// Blank names, negative order quantities and orders whose unit count does
// not fit in an int make a request unusable. Other oddities, like a
// warehouse listed twice or negative stock, are allowed and only reported
// as warnings: the allocator treats them predictably.
package validator

import (
	"fmt"
	"math"

	"github.com/eshaffer321/inventory-allocator/internal/domain/allocator"
)

// RequestValidation contains the result of validating an allocation request.
type RequestValidation struct {
	// Valid is true if the request can be allocated
	Valid bool

	// Reason explains why validation failed (empty if valid)
	Reason string

	// Warnings lists accepted but suspicious input
	Warnings []string
}

// ValidateRequest checks an order and its warehouse list.
//
// The first hard problem found becomes the Reason. Warnings are collected
// for the whole request either way.
func ValidateRequest(order allocator.ItemQuantities, warehouses []allocator.Warehouse) *RequestValidation {
	result := &RequestValidation{Valid: true}

	fail := func(format string, args ...any) {
		if result.Valid {
			result.Valid = false
			result.Reason = fmt.Sprintf(format, args...)
		}
	}

	for item, qty := range order {
		if item == "" {
			fail("order contains an item with no name")
		}
		if qty < 0 {
			fail("order quantity for %q is negative (%d)", item, qty)
		}
	}

	if _, ok := order.CheckedTotal(); !ok {
		fail("order quantities add up to more than %d units", math.MaxInt)
	}

	seen := make(map[string]int, len(warehouses))
	for i, w := range warehouses {
		if w.Name == "" {
			fail("warehouse %d has no name", i)
		} else if first, dup := seen[w.Name]; dup {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("warehouse %q is listed at positions %d and %d", w.Name, first, i))
		} else {
			seen[w.Name] = i
		}

		for item, qty := range w.Inventory {
			if item == "" {
				fail("warehouse %q lists an item with no name", w.Name)
			}
			if qty < 0 {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("warehouse %q has negative stock of %q, treated as none", w.Name, item))
			}
		}
	}

	return result
}
