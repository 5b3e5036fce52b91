package planner

import "pantry-planner/internal/food"

// IsValid reports whether the plan consumes no food beyond what the
// week-start pantry held.
func IsValid(plan *MealPlan, snapshot *food.Pantry) bool {
	for f, used := range plan.Usage() {
		if used > snapshot.CountOf(f) {
			return false
		}
	}
	return true
}
