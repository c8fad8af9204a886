package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/internal/metrics"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/tools"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/types"
)

const baristaInstructions = `You are an upbeat coffee shop barista taking a drink order at the counter.

Collect the order one detail at a time: the drink type, the size (small, medium or large),
the milk choice, any extras, and the customer's name for the cup.

Use update_order each time the customer gives or changes a detail, view_order to read the
order back, and complete_order once everything is confirmed.

GUIDELINES:
- One question at a time, keep it light and quick.
- Read the full order back before completing it.
- Short conversational responses only; no formatting or emojis.`

// drinkPrices is the flat size-based price list.
var drinkPrices = map[string]float64{
	"small":  3.50,
	"medium": 4.25,
	"large":  5.00,
}

// BaristaAssistant fills drink order slots across turns and writes the
// completed order through the order store.
type BaristaAssistant struct {
	*Assistant
	orders store.OrderStore
	logger *zap.Logger

	drinkType string
	size      string
	milk      string
	extras    []string
	customer  string
	completed bool
}

// NewBaristaAssistant creates the barista assistant for one conversation.
func NewBaristaAssistant(orders store.OrderStore, logger *zap.Logger) *BaristaAssistant {
	ba := &BaristaAssistant{
		Assistant: newAssistant("barista", baristaInstructions, logger),
		orders:    orders,
		logger:    logger.With(zap.String("agent", "barista")),
	}

	ba.mustRegister("update_order", ba.updateOrder, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Set or change one or more details of the drink order. Only pass fields the customer just gave.",
			Parameters: json.RawMessage(`{"type":"object","properties":{
"drink_type":{"type":"string","description":"The drink, e.g. latte, cappuccino, americano"},
"size":{"type":"string","description":"small, medium or large"},
"milk":{"type":"string","description":"Milk choice, e.g. whole, oat, none"},
"extras":{"type":"array","items":{"type":"string"},"description":"Extras such as syrups or an extra shot"},
"customer_name":{"type":"string","description":"Name for the cup"}},
"required":[]}`),
		},
	})
	ba.mustRegister("view_order", ba.viewOrder, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Read back the order so far and what is still missing.",
		},
	})
	ba.mustRegister("complete_order", ba.completeOrder, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Finalize the order once the drink, size and name are confirmed.",
		},
	})

	return ba
}

func (ba *BaristaAssistant) updateOrder(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		DrinkType    *string  `json:"drink_type"`
		Size         *string  `json:"size"`
		Milk         *string  `json:"milk"`
		Extras       []string `json:"extras"`
		CustomerName *string  `json:"customer_name"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", err
	}
	if ba.completed {
		return "That order is already in. If you'd like anything else, we can start a fresh one.", nil
	}

	if in.DrinkType != nil {
		ba.drinkType = strings.TrimSpace(*in.DrinkType)
	}
	if in.Size != nil {
		size := strings.ToLower(strings.TrimSpace(*in.Size))
		if _, ok := drinkPrices[size]; !ok {
			return "We do small, medium and large. Which would you like?", nil
		}
		ba.size = size
	}
	if in.Milk != nil {
		ba.milk = strings.TrimSpace(*in.Milk)
	}
	if in.Extras != nil {
		ba.extras = in.Extras
	}
	if in.CustomerName != nil {
		ba.customer = strings.TrimSpace(*in.CustomerName)
	}

	if missing := ba.missing(); len(missing) > 0 {
		return fmt.Sprintf("Got it. I still need %s.", joinSpoken(missing)), nil
	}
	return "Got it. " + ba.summary() + " Shall I ring that up?", nil
}

func (ba *BaristaAssistant) viewOrder(ctx context.Context, args json.RawMessage) (string, error) {
	if ba.drinkType == "" && ba.size == "" && ba.customer == "" {
		return "Nothing on the order yet. What can I get started for you?", nil
	}
	out := ba.summary()
	if missing := ba.missing(); len(missing) > 0 {
		out += fmt.Sprintf(" I still need %s.", joinSpoken(missing))
	}
	return out, nil
}

func (ba *BaristaAssistant) completeOrder(ctx context.Context, args json.RawMessage) (string, error) {
	if ba.completed {
		return "That order is already in. It'll be ready shortly!", nil
	}
	if missing := ba.missing(); len(missing) > 0 {
		return fmt.Sprintf("Almost there, I still need %s before I can ring it up.", joinSpoken(missing)), nil
	}

	price := drinkPrices[ba.size]
	order := &store.Order{
		Agent:    ba.Name(),
		Customer: ba.customer,
		Items: []store.OrderItem{
			{Name: ba.drinkName(), Quantity: 1, UnitPrice: price},
		},
		Total: price,
		Details: map[string]string{
			"drink_type": ba.drinkType,
			"size":       ba.size,
			"milk":       ba.milk,
			"extras":     strings.Join(ba.extras, ", "),
		},
		Timestamp: time.Now(),
	}
	if err := ba.orders.SaveOrder(ctx, order); err != nil {
		ba.logger.Error("drink order save failed", zap.Error(err))
		metrics.ObservePersistenceFailure("complete_order")
		return "Sorry, my register hiccuped. Give me a second and we'll try that again.", nil
	}

	ba.completed = true
	metrics.ObserveOrderPlaced()
	ba.logger.Info("drink order placed",
		zap.String("order_id", order.ID),
		zap.String("drink", ba.drinkName()))
	return fmt.Sprintf("All set, %s! One %s coming right up, that's $%.2f.",
		ba.customer, ba.drinkName(), price), nil
}

// missing lists the required slots not yet filled. Milk and extras are
// optional.
func (ba *BaristaAssistant) missing() []string {
	var out []string
	if ba.drinkType == "" {
		out = append(out, "the drink")
	}
	if ba.size == "" {
		out = append(out, "the size")
	}
	if ba.customer == "" {
		out = append(out, "a name for the cup")
	}
	return out
}

func (ba *BaristaAssistant) drinkName() string {
	name := strings.TrimSpace(ba.size + " " + ba.drinkType)
	if ba.milk != "" && !strings.EqualFold(ba.milk, "none") {
		name += " with " + ba.milk + " milk"
	}
	if len(ba.extras) > 0 {
		name += ", " + strings.Join(ba.extras, ", ")
	}
	return name
}

func (ba *BaristaAssistant) summary() string {
	out := "So far that's a " + ba.drinkName()
	if ba.customer != "" {
		out += " for " + ba.customer
	}
	return out + "."
}
