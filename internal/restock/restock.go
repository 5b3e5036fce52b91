// Package restock builds the weekly shopping list from the household's
// satisfaction ranking and preference queues.
package restock

import (
	"fmt"
	"log"
	"math"
	"slices"

	"pantry-planner/internal/food"
	"pantry-planner/internal/household"
	"pantry-planner/internal/rank"
	"pantry-planner/internal/shopping"
	"pantry-planner/internal/week"
)

// DinnerChoices is how many top-ranked dinners are ordered each week.
const DinnerChoices = 6

// Scorer ranks members and foods by satisfaction.
type Scorer interface {
	MembersByAverageSatisfaction() *rank.Queue[rank.MemberScore]
	FirstChoice(name household.MemberName, cat food.MealCategory) (food.FoodType, bool)
	FoodsByCompositeScore(cat food.MealCategory, topN int) *rank.Queue[rank.FoodScore]
}

// Ranker hands out preference queues.
type Ranker interface {
	MemberQueues(cat food.MealCategory) map[household.MemberName]*rank.Queue[rank.FoodScore]
	AggregateQueue(cat food.MealCategory) *rank.Queue[rank.FoodScore]
}

// Planner decides what to order for a household sharing one pantry.
type Planner struct {
	capacity int
}

// New creates a planner for a pantry of the given capacity.
func New(capacity int) *Planner {
	return &Planner{capacity: capacity}
}

// MaxCapacity returns the most units of a category the pantry should hold
// for a household of memberCount. Lunch and dinner each hold a week for
// everyone; breakfast gets what is left.
func (p *Planner) MaxCapacity(cat food.MealCategory, memberCount int) int {
	weekly := week.DaysPerWeek * memberCount
	if cat == food.Breakfast {
		return p.capacity - 2*weekly
	}
	return weekly
}

// Plan builds the week's shopping list, sized for this week's members.
func (p *Planner) Plan(weekNum int, pantry *food.Pantry, scores Scorer, prefs Ranker, members []household.Member) (*shopping.List, error) {
	list := shopping.NewList(weekNum, pantry.Catalog())
	n := len(members)

	if err := p.planBreakfast(list, pantry, scores, n); err != nil {
		return nil, fmt.Errorf("failed to plan breakfast: %w", err)
	}
	if err := p.planLunch(list, prefs, members); err != nil {
		return nil, fmt.Errorf("failed to plan lunch: %w", err)
	}
	if err := p.planDinner(list, scores, n); err != nil {
		return nil, fmt.Errorf("failed to plan dinner: %w", err)
	}

	log.Printf("Week %d shopping list: %d units requested", weekNum, list.Requested())
	return list, nil
}

func (p *Planner) planBreakfast(list *shopping.List, pantry *food.Pantry, scores Scorer, memberCount int) error {
	maxBreakfast := p.MaxCapacity(food.Breakfast, memberCount)
	if maxBreakfast < 0 {
		list.SetLimit(food.Breakfast, 0)
		return nil
	}
	stock := pantry.CategoryTotal(food.Breakfast)
	needed := max(0, maxBreakfast-stock)
	minimum := week.DaysPerWeek * memberCount
	list.SetLimit(food.Breakfast, needed)

	members := scores.MembersByAverageSatisfaction().Items()
	allocations := Allocate(members, needed)
	for _, m := range members {
		first, ok := scores.FirstChoice(m.Name, food.Breakfast)
		if !ok {
			continue
		}
		if err := list.RequestN(first, allocations[m.Name]); err != nil {
			return err
		}
	}

	if stock < minimum {
		backups := scores.FoodsByCompositeScore(food.Breakfast, 0)
		for backups.Len() > 0 {
			fs, _ := backups.Pop()
			if err := list.RequestN(fs.Food, needed); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Planner) planLunch(list *shopping.List, prefs Ranker, members []household.Member) error {
	weekly := p.MaxCapacity(food.Lunch, len(members))
	if weekly < 0 {
		return nil
	}
	list.SetLimit(food.Lunch, weekly)

	queues := prefs.MemberQueues(food.Lunch)
	added := make(map[food.FoodType]bool)
	for _, m := range members {
		q, ok := queues[m.Name]
		if !ok {
			continue
		}
		top, ok := q.Pop()
		if !ok {
			continue
		}
		if err := list.RequestN(top.Food, week.DaysPerWeek); err != nil {
			return err
		}
		added[top.Food] = true
	}

	agg := prefs.AggregateQueue(food.Lunch)
	for agg.Len() > 0 {
		fs, _ := agg.Pop()
		if added[fs.Food] {
			continue
		}
		if err := list.RequestN(fs.Food, week.DaysPerWeek); err != nil {
			return err
		}
	}
	return nil
}

func (p *Planner) planDinner(list *shopping.List, scores Scorer, memberCount int) error {
	weekly := p.MaxCapacity(food.Dinner, memberCount)
	if weekly < 0 {
		return nil
	}
	list.SetLimit(food.Dinner, weekly)

	dinners := scores.FoodsByCompositeScore(food.Dinner, DinnerChoices)
	for dinners.Len() > 0 {
		fs, _ := dinners.Pop()
		if err := list.RequestN(fs.Food, memberCount); err != nil {
			return err
		}
	}
	return nil
}

// Allocate splits needed units across members in proportion to their
// weights. The result always sums to needed when any member has a positive
// weight.
func Allocate(members []rank.MemberScore, needed int) map[household.MemberName]int {
	alloc := make(map[household.MemberName]int, len(members))
	if len(members) == 0 || needed <= 0 {
		for _, m := range members {
			alloc[m.Name] = 0
		}
		return alloc
	}

	var totalWeight float64
	for _, m := range members {
		totalWeight += math.Max(m.Weight, 0)
	}

	// Least satisfied first, so rounding overflow is trimmed from the most
	// satisfied members.
	byPriority := slices.Clone(members)
	slices.SortFunc(byPriority, rank.BySatisfactionAscending)

	total := 0
	for _, m := range byPriority {
		share := 0
		if totalWeight > 0 {
			share = int(math.Round(math.Max(m.Weight, 0) / totalWeight * float64(needed)))
		}
		share = max(0, min(share, needed-total))
		alloc[m.Name] = share
		total += share
	}

	for total < needed {
		progressed := false
		for _, m := range byPriority {
			if total == needed {
				break
			}
			if m.Weight <= 0 {
				continue
			}
			alloc[m.Name]++
			total++
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return alloc
}
