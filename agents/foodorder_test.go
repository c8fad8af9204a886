package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/cart"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
)

func newFoodOrder(t *testing.T) (*FoodOrderAssistant, store.OrderStore) {
	t.Helper()
	orders, err := store.NewFileOrderStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { orders.Close() })
	return NewFoodOrderAssistant(cart.DefaultMenu(), orders, zap.NewNop()), orders
}

func TestFoodOrderAssistant_BuildCart(t *testing.T) {
	fo, _ := newFoodOrder(t)

	reply := call(t, fo.Assistant, "add_item", `{"name":"eggs","quantity":2}`)
	assert.Contains(t, reply, "Eggs")
	assert.Contains(t, reply, "$7.50")

	reply = call(t, fo.Assistant, "add_item", `{"name":"Milk"}`)
	assert.Contains(t, reply, "$9.75")

	reply = call(t, fo.Assistant, "view_cart", `{}`)
	assert.Contains(t, reply, "2 Eggs")
	assert.Contains(t, reply, "1 Milk")
	assert.Contains(t, reply, "$9.75")

	reply = call(t, fo.Assistant, "update_quantity", `{"name":"eggs","quantity":1}`)
	assert.Contains(t, reply, "$6.00")

	reply = call(t, fo.Assistant, "remove_item", `{"name":"milk"}`)
	assert.Contains(t, reply, "$3.75")
}

func TestFoodOrderAssistant_UnknownItem(t *testing.T) {
	fo, _ := newFoodOrder(t)

	reply := call(t, fo.Assistant, "add_item", `{"name":"caviar"}`)
	assert.Contains(t, reply, "isn't on the menu")
	assert.True(t, fo.Cart().Empty())

	reply = call(t, fo.Assistant, "remove_item", `{"name":"eggs"}`)
	assert.Contains(t, reply, "don't have any")
}

func TestFoodOrderAssistant_AddRecipe(t *testing.T) {
	fo, _ := newFoodOrder(t)

	reply := call(t, fo.Assistant, "add_recipe", `{"name":"taco night"}`)
	assert.Contains(t, reply, "Taco Night")
	assert.Contains(t, reply, "2 Tortillas")

	reply = call(t, fo.Assistant, "add_recipe", `{"name":"sushi platter"}`)
	assert.Contains(t, reply, "don't have a recipe")
}

func TestFoodOrderAssistant_PlaceOrder(t *testing.T) {
	fo, orders := newFoodOrder(t)

	reply := call(t, fo.Assistant, "place_order", `{}`)
	assert.Contains(t, reply, "empty")

	call(t, fo.Assistant, "add_item", `{"name":"Spaghetti","quantity":2}`)
	reply = call(t, fo.Assistant, "place_order", `{"customer":"Dana"}`)
	assert.Contains(t, reply, "placed")
	assert.Contains(t, reply, "$5.00")

	saved, err := orders.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "food-order", saved[0].Agent)
	assert.Equal(t, "Dana", saved[0].Customer)
	assert.InDelta(t, 5.00, saved[0].Total, 1e-9)

	// Placing resets the cart for a fresh order.
	assert.True(t, fo.Cart().Empty())
}

func TestFoodOrderAssistant_InstructionsCarryMenu(t *testing.T) {
	fo, _ := newFoodOrder(t)
	assert.Contains(t, fo.Instructions(), "Spaghetti: $2.50")
	assert.Contains(t, fo.Instructions(), "Taco Night")
}
