package simulation

import (
	"pantry-planner/internal/food"
	"pantry-planner/internal/shopping"
)

// Fulfil delivers a shopping list into the pantry. Each category is served
// in request order until its limit is reached; nothing is delivered once the
// pantry holds capacity units. It returns the units delivered.
func Fulfil(list *shopping.List, pantry *food.Pantry, capacity int) int {
	delivered := 0
	for _, cat := range food.Categories() {
		limit := list.Limit(cat)
		taken := 0
		for _, f := range list.Order(cat) {
			if taken >= limit || pantry.Total() >= capacity {
				break
			}
			if err := pantry.Add(f, 1); err != nil {
				continue
			}
			taken++
		}
		delivered += taken
	}
	return delivered
}
