package shopping

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"pantry-planner/internal/food"
)

// Item is one ordered food and the units requested.
type Item struct {
	Food     food.FoodType     `json:"food"`
	Category food.MealCategory `json:"category"`
	Units    int               `json:"units"`
}

// List is the weekly order the agent hands to the store: per-category unit
// limits plus requests in preference order. Requests past a limit are
// dropped when the store fulfils the list, not here.
type List struct {
	Week    int
	catalog *food.Catalog
	limits  map[food.MealCategory]int
	orders  map[food.MealCategory][]food.FoodType
}

// NewList creates an empty list for a week.
func NewList(weekNum int, catalog *food.Catalog) *List {
	return &List{
		Week:    weekNum,
		catalog: catalog,
		limits:  make(map[food.MealCategory]int),
		orders:  make(map[food.MealCategory][]food.FoodType),
	}
}

// SetLimit caps how many units of a category the store may deliver.
func (l *List) SetLimit(cat food.MealCategory, n int) {
	l.limits[cat] = max(n, 0)
}

// Limit returns the unit cap of a category.
func (l *List) Limit(cat food.MealCategory) int {
	return l.limits[cat]
}

// Request appends one unit of a food to its category's order.
func (l *List) Request(f food.FoodType) error {
	cat, ok := l.catalog.CategoryOf(f)
	if !ok {
		return fmt.Errorf("unknown food %s", f)
	}
	l.orders[cat] = append(l.orders[cat], f)
	return nil
}

// RequestN appends n units of a food.
func (l *List) RequestN(f food.FoodType, n int) error {
	for range n {
		if err := l.Request(f); err != nil {
			return err
		}
	}
	return nil
}

// Order returns a category's requests in the order they were made.
func (l *List) Order(cat food.MealCategory) []food.FoodType {
	return slices.Clone(l.orders[cat])
}

// Requested returns the number of units requested across all categories.
func (l *List) Requested() int {
	n := 0
	for _, o := range l.orders {
		n += len(o)
	}
	return n
}

// Items collapses the requests each category's limit admits into per-food
// totals, grouped by category and kept in first-request order. Requests past
// a limit are left out.
func (l *List) Items() []Item {
	var items []Item
	for _, cat := range food.Categories() {
		index := make(map[food.FoodType]int)
		order := l.orders[cat]
		if limit := l.limits[cat]; len(order) > limit {
			order = order[:limit]
		}
		for _, f := range order {
			if i, ok := index[f]; ok {
				items[i].Units++
				continue
			}
			index[f] = len(items)
			items = append(items, Item{Food: f, Category: cat, Units: 1})
		}
	}
	return items
}

// Limits returns a copy of the per-category caps.
func (l *List) Limits() map[food.MealCategory]int {
	return maps.Clone(l.limits)
}

// ShoppingList is the persisted form of a week's list.
type ShoppingList struct {
	ID        int64                     `json:"id"`
	RunID     string                    `json:"run_id"`
	Week      int                       `json:"week"`
	Items     []Item                    `json:"items"`
	Limits    map[food.MealCategory]int `json:"limits"`
	CreatedAt time.Time                 `json:"created_at"`
}

// Snapshot converts the list into its persisted form.
func (l *List) Snapshot(runID string) *ShoppingList {
	return &ShoppingList{
		RunID:  runID,
		Week:   l.Week,
		Items:  l.Items(),
		Limits: l.Limits(),
	}
}
