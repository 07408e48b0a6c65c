package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	order := ItemQuantities{"apple": 2, "banana": 1}
	warehouses := []Warehouse{
		{Name: "owd", Inventory: ItemQuantities{"apple": 1, "banana": 2}},
		{Name: "dw", Inventory: ItemQuantities{"apple": 1}},
	}

	t.Run("accepts allocator output", func(t *testing.T) {
		require.NoError(t, Verify(order, warehouses, Allocate(order, warehouses)))
	})

	t.Run("accepts empty result", func(t *testing.T) {
		require.NoError(t, Verify(order, warehouses, nil))
	})

	t.Run("accepts compacted result", func(t *testing.T) {
		ws := []Warehouse{
			{Name: "empty", Inventory: ItemQuantities{}},
			{Name: "full", Inventory: ItemQuantities{"apple": 5}},
		}
		o := ItemQuantities{"apple": 5}
		require.NoError(t, Verify(o, ws, Compact(Allocate(o, ws))))
	})

	t.Run("rejects short shipment", func(t *testing.T) {
		err := Verify(order, warehouses, []Shipment{
			{Warehouse: "owd", Items: ItemQuantities{"apple": 1, "banana": 1}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "apple")
	})

	t.Run("rejects overdrawn warehouse", func(t *testing.T) {
		err := Verify(order, warehouses, []Shipment{
			{Warehouse: "owd", Items: ItemQuantities{"apple": 2, "banana": 1}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "in stock")
	})

	t.Run("rejects out of order warehouses", func(t *testing.T) {
		err := Verify(order, warehouses, []Shipment{
			{Warehouse: "dw", Items: ItemQuantities{"apple": 1}},
			{Warehouse: "owd", Items: ItemQuantities{"apple": 1, "banana": 1}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("rejects unknown warehouse", func(t *testing.T) {
		err := Verify(order, warehouses, []Shipment{
			{Warehouse: "lax", Items: ItemQuantities{"apple": 2, "banana": 1}},
		})
		require.Error(t, err)
	})

	t.Run("rejects unordered item", func(t *testing.T) {
		ws := []Warehouse{{Name: "owd", Inventory: ItemQuantities{"apple": 2, "banana": 1, "orange": 1}}}
		err := Verify(order, ws, []Shipment{
			{Warehouse: "owd", Items: ItemQuantities{"apple": 2, "banana": 1, "orange": 1}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not ordered")
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		err := Verify(order, warehouses, []Shipment{
			{Warehouse: "owd", Items: ItemQuantities{"apple": 1, "banana": 1, "kiwi": 0}},
			{Warehouse: "dw", Items: ItemQuantities{"apple": 1}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-positive")
	})
}
