package history

import (
	"maps"
	"slices"

	"pantry-planner/internal/food"
	"pantry-planner/internal/household"
	"pantry-planner/internal/week"
)

// DayMeals is what one member was served on one day.
type DayMeals map[food.MealCategory]food.FoodType

// MealHistory is an append-only log of served meals keyed by global day index.
type MealHistory struct {
	days map[int]map[household.MemberName]DayMeals
}

// New creates an empty history.
func New() *MealHistory {
	return &MealHistory{days: make(map[int]map[household.MemberName]DayMeals)}
}

// Record appends a member's meals for one day. Slots already recorded for
// that day are kept; history is never rewritten.
func (h *MealHistory) Record(weekNum int, day week.Day, member household.MemberName, meals DayMeals) {
	g := week.GlobalDay(weekNum, day)
	if h.days[g] == nil {
		h.days[g] = make(map[household.MemberName]DayMeals)
	}
	if h.days[g][member] == nil {
		h.days[g][member] = make(DayMeals)
	}
	for cat, f := range meals {
		if _, exists := h.days[g][member][cat]; !exists {
			h.days[g][member][cat] = f
		}
	}
}

// EntriesByGlobalDay returns a deep copy of the log.
func (h *MealHistory) EntriesByGlobalDay() map[int]map[household.MemberName]DayMeals {
	out := make(map[int]map[household.MemberName]DayMeals, len(h.days))
	for g, members := range h.days {
		out[g] = make(map[household.MemberName]DayMeals, len(members))
		for name, meals := range members {
			out[g][name] = maps.Clone(meals)
		}
	}
	return out
}

// GlobalDays returns the recorded day indexes in ascending order.
func (h *MealHistory) GlobalDays() []int {
	return slices.Sorted(maps.Keys(h.days))
}

// Meal returns what a member was served in one slot of a global day.
func (h *MealHistory) Meal(globalDay int, member household.MemberName, cat food.MealCategory) (food.FoodType, bool) {
	f, ok := h.days[globalDay][member][cat]
	return f, ok
}

// LastServed finds the latest global day strictly before `before` on which
// the member was served f in category cat.
func (h *MealHistory) LastServed(member household.MemberName, cat food.MealCategory, f food.FoodType, before int) (int, bool) {
	last, found := 0, false
	for g, members := range h.days {
		if g >= before || g <= last {
			continue
		}
		if members[member][cat] == f {
			last, found = g, true
		}
	}
	return last, found
}

// Len returns the number of recorded days.
func (h *MealHistory) Len() int {
	return len(h.days)
}
