package food

import (
	"errors"
	"fmt"
)

// ErrOutOfStock is returned when removing a food whose count is already zero.
var ErrOutOfStock = errors.New("food out of stock")

// Pantry maps each food to its remaining count.
type Pantry struct {
	catalog *Catalog
	counts  map[FoodType]int
}

// NewPantry creates an empty pantry over a catalog.
func NewPantry(catalog *Catalog) *Pantry {
	return &Pantry{
		catalog: catalog,
		counts:  make(map[FoodType]int),
	}
}

// Catalog returns the catalog the pantry is stocked from.
func (p *Pantry) Catalog() *Catalog {
	return p.catalog
}

// CountOf returns the remaining units of a food.
func (p *Pantry) CountOf(f FoodType) int {
	return p.counts[f]
}

// Add stocks n units of a food.
func (p *Pantry) Add(f FoodType, n int) error {
	if _, ok := p.catalog.CategoryOf(f); !ok {
		return fmt.Errorf("unknown food %s", f)
	}
	if n < 0 {
		return fmt.Errorf("cannot add %d units of %s", n, f)
	}
	p.counts[f] += n
	return nil
}

// Remove takes one unit of a food out of the pantry.
func (p *Pantry) Remove(f FoodType) error {
	if p.counts[f] <= 0 {
		return fmt.Errorf("failed to remove %s: %w", f, ErrOutOfStock)
	}
	p.counts[f]--
	return nil
}

// Clone returns an independent copy.
func (p *Pantry) Clone() *Pantry {
	c := NewPantry(p.catalog)
	for f, n := range p.counts {
		c.counts[f] = n
	}
	return c
}

// CategoryMap returns food -> count for every catalog food of one category,
// including foods with zero units.
func (p *Pantry) CategoryMap(cat MealCategory) map[FoodType]int {
	m := make(map[FoodType]int)
	for _, f := range p.catalog.Foods(cat) {
		m[f] = p.counts[f]
	}
	return m
}

// CategoryTotal returns the units available for one meal category.
func (p *Pantry) CategoryTotal(cat MealCategory) int {
	total := 0
	for _, f := range p.catalog.Foods(cat) {
		total += p.counts[f]
	}
	return total
}

// Total returns the number of units across all categories.
func (p *Pantry) Total() int {
	total := 0
	for _, n := range p.counts {
		total += n
	}
	return total
}
