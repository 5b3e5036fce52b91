package food

import (
	"fmt"
	"slices"
)

// MealCategory partitions the food catalog and the daily assignment slots.
type MealCategory string

const (
	Breakfast MealCategory = "breakfast"
	Lunch     MealCategory = "lunch"
	Dinner    MealCategory = "dinner"
)

// Categories returns every meal category in serving order.
func Categories() []MealCategory {
	return []MealCategory{Breakfast, Lunch, Dinner}
}

// MinDinnerBatch is the fewest units of a dinner worth cooking for the
// household; smaller stocks are never planned for dinner.
const MinDinnerBatch = 3

// FoodType identifies a single food item in the catalog.
type FoodType string

// Catalog is the finite set of foods, each belonging to exactly one category.
type Catalog struct {
	categories map[FoodType]MealCategory
	byCategory map[MealCategory][]FoodType
}

// NewCatalog builds a catalog from a category -> foods listing.
// Foods are kept sorted by name inside each category.
func NewCatalog(listing map[MealCategory][]FoodType) (*Catalog, error) {
	c := &Catalog{
		categories: make(map[FoodType]MealCategory),
		byCategory: make(map[MealCategory][]FoodType),
	}
	for _, cat := range Categories() {
		for _, f := range listing[cat] {
			if existing, ok := c.categories[f]; ok {
				return nil, fmt.Errorf("food %s listed under both %s and %s", f, existing, cat)
			}
			c.categories[f] = cat
			c.byCategory[cat] = append(c.byCategory[cat], f)
		}
		slices.Sort(c.byCategory[cat])
	}
	for cat := range listing {
		if !slices.Contains(Categories(), cat) {
			return nil, fmt.Errorf("unknown meal category %q", cat)
		}
	}
	return c, nil
}

// DefaultCatalog mirrors the simulation's food set: ten breakfasts, ten lunches
// and twenty dinners.
func DefaultCatalog() *Catalog {
	listing := map[MealCategory][]FoodType{}
	counts := map[MealCategory]int{Breakfast: 10, Lunch: 10, Dinner: 20}
	for _, cat := range Categories() {
		for i := 1; i <= counts[cat]; i++ {
			listing[cat] = append(listing[cat], FoodType(fmt.Sprintf("%s%02d", cat, i)))
		}
	}
	c, _ := NewCatalog(listing)
	return c
}

// CategoryOf returns the meal category of a food.
func (c *Catalog) CategoryOf(f FoodType) (MealCategory, bool) {
	cat, ok := c.categories[f]
	return cat, ok
}

// Foods returns the foods of one category, sorted by name.
func (c *Catalog) Foods(cat MealCategory) []FoodType {
	return slices.Clone(c.byCategory[cat])
}

// All returns every food, category by category.
func (c *Catalog) All() []FoodType {
	var all []FoodType
	for _, cat := range Categories() {
		all = append(all, c.byCategory[cat]...)
	}
	return all
}
