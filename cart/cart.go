// Package cart implements the shopping-cart accumulator used by the food
// ordering assistant: menu lookup, quantity bookkeeping, recipe-bundle
// expansion, and order placement.
//
// A Cart belongs to exactly one conversation. It is explicit state passed
// by handle, never a process-wide singleton, so two concurrent
// conversations can never see each other's items.
package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
)

// Common errors
var (
	ErrUnknownItem     = errors.New("item not on the menu")
	ErrUnknownRecipe   = errors.New("unknown recipe")
	ErrNotInCart       = errors.New("item not in cart")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Item is one cart line.
type Item struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Cart accumulates items for one conversation.
type Cart struct {
	menu  *Menu
	items []Item
}

// New creates an empty cart over a menu.
func New(menu *Menu) *Cart {
	return &Cart{menu: menu}
}

func (c *Cart) find(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, it := range c.items {
		if strings.ToLower(it.Name) == want {
			return i
		}
	}
	return -1
}

// Add puts an item in the cart, merging quantities when the item is
// already present. The item must exist on the menu.
func (c *Cart) Add(name string, quantity int) (Item, error) {
	if quantity < 1 {
		return Item{}, ErrInvalidQuantity
	}
	mi, ok := c.menu.Item(name)
	if !ok {
		return Item{}, ErrUnknownItem
	}

	if i := c.find(mi.Name); i >= 0 {
		c.items[i].Quantity += quantity
		return c.items[i], nil
	}

	it := Item{Name: mi.Name, Quantity: quantity, UnitPrice: mi.Price}
	c.items = append(c.items, it)
	return it, nil
}

// Remove drops an item from the cart entirely.
func (c *Cart) Remove(name string) error {
	i := c.find(name)
	if i < 0 {
		return ErrNotInCart
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

// UpdateQuantity sets the quantity of an item already in the cart.
// A zero quantity removes the item.
func (c *Cart) UpdateQuantity(name string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		return c.Remove(name)
	}

	i := c.find(name)
	if i < 0 {
		return ErrNotInCart
	}
	c.items[i].Quantity = quantity
	return nil
}

// AddRecipe expands a named recipe bundle into its constituent items and
// adds each to the cart.
func (c *Cart) AddRecipe(name string) (Recipe, error) {
	r, ok := c.menu.Recipe(name)
	if !ok {
		return Recipe{}, ErrUnknownRecipe
	}

	for _, ing := range r.Items {
		if _, err := c.Add(ing.Name, ing.Quantity); err != nil {
			return Recipe{}, err
		}
	}
	return r, nil
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Total sums the cart.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += float64(it.Quantity) * it.UnitPrice
	}
	return total
}

// Empty reports whether the cart has no items.
func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// PlaceOrder snapshots the cart into an order, persists it, and clears
// the cart. The order identifier is assigned by the store.
func (c *Cart) PlaceOrder(ctx context.Context, orders store.OrderStore, agent, customer string) (*store.Order, error) {
	if c.Empty() {
		return nil, ErrEmptyCart
	}

	items := make([]store.OrderItem, len(c.items))
	for i, it := range c.items {
		items[i] = store.OrderItem{Name: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	o := &store.Order{
		Agent:    agent,
		Customer: customer,
		Items:    items,
		Total:    c.Total(),
	}

	if err := orders.SaveOrder(ctx, o); err != nil {
		return nil, err
	}

	c.items = nil
	return o, nil
}
