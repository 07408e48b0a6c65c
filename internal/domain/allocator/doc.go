// Package allocator decides which warehouses ship which items of an order.
//
// Warehouses are consulted in the order given (cheapest first). Each item is
// taken from the earliest warehouse that stocks it, and only spills over to the
// next warehouse when the earlier one runs out:
//
//	for each warehouse (until the order is covered):
//	    take min(still_needed, in_stock) of every needed item
//
// An order is fulfilled completely or not at all. When the warehouses cannot
// cover every unit, Allocate returns no shipments.
package allocator
