package planner

import (
	"fmt"
	"slices"

	"pantry-planner/internal/food"
	"pantry-planner/internal/history"
	"pantry-planner/internal/household"
	"pantry-planner/internal/week"
)

// PlanStatus represents the lifecycle state of a meal plan.
type PlanStatus string

const (
	StatusDraft    PlanStatus = "DRAFT"
	StatusFinal    PlanStatus = "FINAL"
	StatusRejected PlanStatus = "REJECTED"
)

// MealPlan is one week's assignment grid: day x member x category -> food.
type MealPlan struct {
	Week    int
	Status  PlanStatus
	members []household.MemberName
	grid    map[week.Day]map[household.MemberName]history.DayMeals
}

// NewMealPlan creates an empty draft plan for the household.
func NewMealPlan(weekNum int, members []household.MemberName) *MealPlan {
	return &MealPlan{
		Week:    weekNum,
		Status:  StatusDraft,
		members: slices.Clone(members),
		grid:    make(map[week.Day]map[household.MemberName]history.DayMeals),
	}
}

// Members returns the household in list order.
func (p *MealPlan) Members() []household.MemberName {
	return slices.Clone(p.members)
}

// Assign fills one slot, overwriting any earlier assignment.
func (p *MealPlan) Assign(day week.Day, member household.MemberName, cat food.MealCategory, f food.FoodType) {
	if p.grid[day] == nil {
		p.grid[day] = make(map[household.MemberName]history.DayMeals)
	}
	if p.grid[day][member] == nil {
		p.grid[day][member] = make(history.DayMeals)
	}
	p.grid[day][member][cat] = f
}

// Get returns the food assigned to one slot.
func (p *MealPlan) Get(day week.Day, member household.MemberName, cat food.MealCategory) (food.FoodType, bool) {
	f, ok := p.grid[day][member][cat]
	return f, ok
}

// Snapshot returns a deep copy of the grid.
func (p *MealPlan) Snapshot() map[week.Day]map[household.MemberName]history.DayMeals {
	out := make(map[week.Day]map[household.MemberName]history.DayMeals, len(p.grid))
	for d, members := range p.grid {
		out[d] = make(map[household.MemberName]history.DayMeals, len(members))
		for name, meals := range members {
			out[d][name] = make(history.DayMeals, len(meals))
			for c, f := range meals {
				out[d][name][c] = f
			}
		}
	}
	return out
}

// Usage totals how many units of each food the grid consumes.
func (p *MealPlan) Usage() map[food.FoodType]int {
	usage := make(map[food.FoodType]int)
	for _, members := range p.grid {
		for _, meals := range members {
			for _, f := range meals {
				usage[f]++
			}
		}
	}
	return usage
}

// MealsServed counts filled slots.
func (p *MealPlan) MealsServed() int {
	n := 0
	for _, c := range p.Usage() {
		n += c
	}
	return n
}

// IsEmpty reports whether no slot is filled.
func (p *MealPlan) IsEmpty() bool {
	return p.MealsServed() == 0
}

// RecordTo appends every filled slot to the meal history.
func (p *MealPlan) RecordTo(h *history.MealHistory) {
	for _, d := range week.Days() {
		for _, name := range p.members {
			if meals := p.grid[d][name]; len(meals) > 0 {
				h.Record(p.Week, d, name, meals)
			}
		}
	}
}

// MemberMeals is one member's meals for one day.
type MemberMeals struct {
	Member    household.MemberName `json:"member"`
	Breakfast food.FoodType        `json:"breakfast,omitempty"`
	Lunch     food.FoodType        `json:"lunch,omitempty"`
	Dinner    food.FoodType        `json:"dinner,omitempty"`
}

// DayPlan represents the plan for a single day.
type DayPlan struct {
	Day   string        `json:"day"`
	Meals []MemberMeals `json:"meals"`
}

// Document is the serialisable form of a plan.
type Document struct {
	Week    int                    `json:"week"`
	Status  PlanStatus             `json:"status"`
	Members []household.MemberName `json:"members"`
	Days    []DayPlan              `json:"days"`
}

// DayPlans lists every day in week order with members in list order.
func (p *MealPlan) DayPlans() []DayPlan {
	days := make([]DayPlan, 0, week.DaysPerWeek)
	for _, d := range week.Days() {
		dp := DayPlan{Day: d.String()}
		for _, name := range p.members {
			meals := p.grid[d][name]
			dp.Meals = append(dp.Meals, MemberMeals{
				Member:    name,
				Breakfast: meals[food.Breakfast],
				Lunch:     meals[food.Lunch],
				Dinner:    meals[food.Dinner],
			})
		}
		days = append(days, dp)
	}
	return days
}

// Document converts the plan into its serialisable form.
func (p *MealPlan) Document() Document {
	return Document{
		Week:    p.Week,
		Status:  p.Status,
		Members: p.Members(),
		Days:    p.DayPlans(),
	}
}

// FromDocument rebuilds a plan from its serialisable form.
func FromDocument(doc Document) (*MealPlan, error) {
	p := NewMealPlan(doc.Week, doc.Members)
	p.Status = doc.Status
	for _, dp := range doc.Days {
		d, err := week.ParseDay(dp.Day)
		if err != nil {
			return nil, fmt.Errorf("failed to parse plan day: %w", err)
		}
		for _, m := range dp.Meals {
			for cat, f := range map[food.MealCategory]food.FoodType{
				food.Breakfast: m.Breakfast,
				food.Lunch:     m.Lunch,
				food.Dinner:    m.Dinner,
			} {
				if f != "" {
					p.Assign(d, m.Member, cat, f)
				}
			}
		}
	}
	return p, nil
}
