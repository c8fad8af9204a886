package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
)

func newBarista(t *testing.T) (*BaristaAssistant, store.OrderStore) {
	t.Helper()
	orders, err := store.NewFileOrderStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { orders.Close() })
	return NewBaristaAssistant(orders, zap.NewNop()), orders
}

func TestBaristaAssistant_FillSlotsAcrossTurns(t *testing.T) {
	ba, _ := newBarista(t)

	reply := call(t, ba.Assistant, "view_order", `{}`)
	assert.Contains(t, reply, "Nothing on the order yet")

	reply = call(t, ba.Assistant, "update_order", `{"drink_type":"latte"}`)
	assert.Contains(t, reply, "the size")
	assert.Contains(t, reply, "a name for the cup")

	reply = call(t, ba.Assistant, "update_order", `{"size":"Large","milk":"oat"}`)
	assert.Contains(t, reply, "a name for the cup")
	assert.NotContains(t, reply, "the size")

	reply = call(t, ba.Assistant, "update_order", `{"customer_name":"Maya"}`)
	assert.Contains(t, reply, "large latte with oat milk")
	assert.Contains(t, reply, "Maya")
	assert.Contains(t, reply, "ring that up")
}

func TestBaristaAssistant_InvalidSize(t *testing.T) {
	ba, _ := newBarista(t)

	reply := call(t, ba.Assistant, "update_order", `{"size":"venti"}`)
	assert.Contains(t, reply, "small, medium and large")
}

func TestBaristaAssistant_CompleteOrder(t *testing.T) {
	ba, orders := newBarista(t)

	reply := call(t, ba.Assistant, "complete_order", `{}`)
	assert.Contains(t, reply, "still need")

	call(t, ba.Assistant, "update_order",
		`{"drink_type":"cappuccino","size":"medium","customer_name":"Leo","extras":["extra shot"]}`)
	reply = call(t, ba.Assistant, "complete_order", `{}`)
	assert.Contains(t, reply, "Leo")
	assert.Contains(t, reply, "$4.25")

	saved, err := orders.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "barista", saved[0].Agent)
	assert.Equal(t, "Leo", saved[0].Customer)
	assert.Equal(t, "cappuccino", saved[0].Details["drink_type"])
	assert.Equal(t, "medium", saved[0].Details["size"])
	assert.Equal(t, "extra shot", saved[0].Details["extras"])
	assert.InDelta(t, 4.25, saved[0].Total, 1e-9)

	// Completing twice does not write a second order.
	reply = call(t, ba.Assistant, "complete_order", `{}`)
	assert.Contains(t, reply, "already in")
	saved, err = orders.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}
