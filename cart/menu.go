package cart

import "strings"

// MenuItem is one orderable item with its unit price.
type MenuItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Recipe is a named bundle that expands into constituent items.
type Recipe struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Menu is the item catalog plus recipe bundles. Lookups are
// case-insensitive exact matches.
type Menu struct {
	items   map[string]MenuItem
	recipes map[string]Recipe
}

// NewMenu builds a menu from items and recipes.
func NewMenu(items []MenuItem, recipes []Recipe) *Menu {
	m := &Menu{
		items:   make(map[string]MenuItem, len(items)),
		recipes: make(map[string]Recipe, len(recipes)),
	}
	for _, it := range items {
		m.items[strings.ToLower(it.Name)] = it
	}
	for _, r := range recipes {
		m.recipes[strings.ToLower(r.Name)] = r
	}
	return m
}

// Item looks up a menu item by name.
func (m *Menu) Item(name string) (MenuItem, bool) {
	it, ok := m.items[strings.ToLower(strings.TrimSpace(name))]
	return it, ok
}

// Recipe looks up a recipe bundle by name.
func (m *Menu) Recipe(name string) (Recipe, bool) {
	r, ok := m.recipes[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

// Items returns all menu items.
func (m *Menu) Items() []MenuItem {
	out := make([]MenuItem, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	return out
}

// Recipes returns all recipe bundles.
func (m *Menu) Recipes() []Recipe {
	out := make([]Recipe, 0, len(m.recipes))
	for _, r := range m.recipes {
		out = append(out, r)
	}
	return out
}

// DefaultMenu is the grocery catalog the food ordering assistant speaks
// from, including the recipe bundles it can expand.
func DefaultMenu() *Menu {
	return NewMenu(
		[]MenuItem{
			{Name: "Spaghetti", Price: 2.50},
			{Name: "Tomato Sauce", Price: 3.00},
			{Name: "Ground Beef", Price: 6.50},
			{Name: "Parmesan", Price: 4.25},
			{Name: "Tortillas", Price: 3.50},
			{Name: "Chicken Breast", Price: 7.00},
			{Name: "Salsa", Price: 2.75},
			{Name: "Cheddar", Price: 4.00},
			{Name: "Lettuce", Price: 1.50},
			{Name: "Pancake Mix", Price: 3.25},
			{Name: "Maple Syrup", Price: 5.50},
			{Name: "Eggs", Price: 3.75},
			{Name: "Milk", Price: 2.25},
		},
		[]Recipe{
			{
				Name: "Spaghetti Bolognese",
				Items: []Item{
					{Name: "Spaghetti", Quantity: 1},
					{Name: "Tomato Sauce", Quantity: 1},
					{Name: "Ground Beef", Quantity: 1},
					{Name: "Parmesan", Quantity: 1},
				},
			},
			{
				Name: "Taco Night",
				Items: []Item{
					{Name: "Tortillas", Quantity: 2},
					{Name: "Chicken Breast", Quantity: 1},
					{Name: "Salsa", Quantity: 1},
					{Name: "Cheddar", Quantity: 1},
					{Name: "Lettuce", Quantity: 1},
				},
			},
			{
				Name: "Pancake Breakfast",
				Items: []Item{
					{Name: "Pancake Mix", Quantity: 1},
					{Name: "Maple Syrup", Quantity: 1},
					{Name: "Eggs", Quantity: 1},
					{Name: "Milk", Quantity: 1},
				},
			},
		},
	)
}
