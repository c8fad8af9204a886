package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/cart"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/internal/metrics"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/tools"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/types"
)

const foodOrderInstructionsFmt = `You are a friendly grocery ordering voice assistant.
Help the customer build a shopping cart from the menu and place the order when they are done.

THE MENU:
%s

RECIPES you can add as a bundle: %s.

GUIDELINES:
- Only offer items that are on the menu. If something isn't available, say so and suggest an alternative.
- Use add_item, remove_item and update_quantity to manage the cart, view_cart to read it back,
  add_recipe for a recipe bundle, and place_order once the customer confirms they are finished.
- Confirm each change briefly and mention the running total.
- Keep responses short and conversational; no formatting or emojis.`

// FoodOrderAssistant keeps one shopping cart per conversation and places
// the final order into the order store.
type FoodOrderAssistant struct {
	*Assistant
	cart   *cart.Cart
	orders store.OrderStore
	logger *zap.Logger
}

// NewFoodOrderAssistant creates the grocery ordering assistant for one
// conversation.
func NewFoodOrderAssistant(menu *cart.Menu, orders store.OrderStore, logger *zap.Logger) *FoodOrderAssistant {
	fo := &FoodOrderAssistant{
		Assistant: newAssistant("food-order", foodOrderInstructions(menu), logger),
		cart:      cart.New(menu),
		orders:    orders,
		logger:    logger.With(zap.String("agent", "food-order")),
	}

	fo.mustRegister("add_item", fo.addItem, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Add a menu item to the cart, or increase its quantity if already present.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"name":{"type":"string","description":"Menu item name"},"quantity":{"type":"integer","description":"How many to add, defaults to 1"}},"required":["name"]}`),
		},
	})
	fo.mustRegister("remove_item", fo.removeItem, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Remove an item from the cart entirely.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"name":{"type":"string","description":"Item name to remove"}},"required":["name"]}`),
		},
	})
	fo.mustRegister("update_quantity", fo.updateQuantity, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Set the quantity of an item already in the cart. Zero removes it.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"name":{"type":"string","description":"Item name"},"quantity":{"type":"integer","description":"New quantity"}},"required":["name","quantity"]}`),
		},
	})
	fo.mustRegister("view_cart", fo.viewCart, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Read back the current cart contents and total.",
		},
	})
	fo.mustRegister("add_recipe", fo.addRecipe, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Add every ingredient of a named recipe to the cart.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"name":{"type":"string","description":"Recipe name"}},"required":["name"]}`),
		},
	})
	fo.mustRegister("place_order", fo.placeOrder, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Place the order with the current cart contents. The cart must not be empty.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"customer":{"type":"string","description":"Customer name, if given"}},"required":[]}`),
		},
	})

	return fo
}

// Cart exposes the conversation's cart, for tests and diagnostics.
func (fo *FoodOrderAssistant) Cart() *cart.Cart { return fo.cart }

func foodOrderInstructions(menu *cart.Menu) string {
	var lines []string
	for _, it := range menu.Items() {
		lines = append(lines, fmt.Sprintf("- %s: $%.2f", it.Name, it.Price))
	}
	var recipes []string
	for _, r := range menu.Recipes() {
		recipes = append(recipes, r.Name)
	}
	return fmt.Sprintf(foodOrderInstructionsFmt, strings.Join(lines, "\n"), joinSpoken(recipes))
}

func (fo *FoodOrderAssistant) addItem(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", err
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	item, err := fo.cart.Add(in.Name, in.Quantity)
	if err != nil {
		return fo.cartApology(in.Name, err), nil
	}
	return fmt.Sprintf("Added %d %s. You now have %d in the cart, and your total is $%.2f.",
		in.Quantity, item.Name, item.Quantity, fo.cart.Total()), nil
}

func (fo *FoodOrderAssistant) removeItem(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", err
	}

	if err := fo.cart.Remove(in.Name); err != nil {
		return fo.cartApology(in.Name, err), nil
	}
	return fmt.Sprintf("Removed %s. Your total is now $%.2f.", in.Name, fo.cart.Total()), nil
}

func (fo *FoodOrderAssistant) updateQuantity(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", err
	}

	if err := fo.cart.UpdateQuantity(in.Name, in.Quantity); err != nil {
		return fo.cartApology(in.Name, err), nil
	}
	if in.Quantity == 0 {
		return fmt.Sprintf("Removed %s from the cart. Your total is now $%.2f.", in.Name, fo.cart.Total()), nil
	}
	return fmt.Sprintf("Updated %s to %d. Your total is now $%.2f.", in.Name, in.Quantity, fo.cart.Total()), nil
}

func (fo *FoodOrderAssistant) viewCart(ctx context.Context, args json.RawMessage) (string, error) {
	if fo.cart.Empty() {
		return "Your cart is empty so far. What would you like to add?", nil
	}

	var lines []string
	for _, it := range fo.cart.Items() {
		lines = append(lines, fmt.Sprintf("%d %s", it.Quantity, it.Name))
	}
	return fmt.Sprintf("In your cart you have %s. Your total is $%.2f.",
		joinSpoken(lines), fo.cart.Total()), nil
}

func (fo *FoodOrderAssistant) addRecipe(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", err
	}

	recipe, err := fo.cart.AddRecipe(in.Name)
	if err != nil {
		return fmt.Sprintf("I'm sorry, I don't have a recipe called %s.", in.Name), nil
	}

	var lines []string
	for _, it := range recipe.Items {
		lines = append(lines, fmt.Sprintf("%d %s", it.Quantity, it.Name))
	}
	return fmt.Sprintf("Added everything for %s: %s. Your total is now $%.2f.",
		recipe.Name, joinSpoken(lines), fo.cart.Total()), nil
}

func (fo *FoodOrderAssistant) placeOrder(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Customer string `json:"customer"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", err
	}

	order, err := fo.cart.PlaceOrder(ctx, fo.orders, fo.Name(), in.Customer)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			return "Your cart is empty, so there's nothing to order yet. What would you like to add?", nil
		}
		fo.logger.Error("order placement failed", zap.Error(err))
		metrics.ObservePersistenceFailure("place_order")
		return "I'm sorry, I couldn't save your order just now. Let's try again in a moment.", nil
	}

	metrics.ObserveOrderPlaced()
	fo.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total))
	return fmt.Sprintf("Your order is placed. The total is $%.2f and your confirmation number is %s. Thank you!",
		order.Total, order.ID), nil
}

func (fo *FoodOrderAssistant) cartApology(name string, err error) string {
	switch {
	case errors.Is(err, cart.ErrUnknownItem):
		return fmt.Sprintf("I'm sorry, %s isn't on the menu. Would you like something else?", name)
	case errors.Is(err, cart.ErrNotInCart):
		return fmt.Sprintf("You don't have any %s in your cart yet.", name)
	case errors.Is(err, cart.ErrInvalidQuantity):
		return "That quantity doesn't look right. How many would you like?"
	default:
		return "I'm sorry, I couldn't update the cart. Could you repeat that?"
	}
}
