package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/eshaffer321/inventory-allocator/internal/api/dto"
	"github.com/eshaffer321/inventory-allocator/internal/application/service"
	"github.com/eshaffer321/inventory-allocator/internal/domain/allocator"
)

// PrintResult prints the allocation as human readable text
func PrintResult(w io.Writer, result *service.Result) {
	if !result.Fulfilled {
		fmt.Fprintln(w, "Order cannot be fulfilled from available inventory")
		return
	}

	fmt.Fprintf(w, "Order fulfilled with %d shipment(s)", len(result.Shipments))
	if result.ID != "" {
		fmt.Fprintf(w, " | Recorded: %s", result.ID)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 60))

	for _, shipment := range result.Shipments {
		fmt.Fprintf(w, "  %-20s %s\n", shipment.Warehouse, formatItems(shipment.Items))
	}
}

// PrintJSON writes the allocation in the same shape the HTTP API returns
func PrintJSON(w io.Writer, result *service.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.AllocateResponse{
		ID:        result.ID,
		Fulfilled: result.Fulfilled,
		Shipments: dto.NewShipmentResponses(result.Shipments),
	})
}

// formatItems renders items as "apple=1 banana=2", sorted by name
func formatItems(items allocator.ItemQuantities) string {
	if len(items) == 0 {
		return "(nothing)"
	}

	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, items[name]))
	}
	return strings.Join(parts, " ")
}
