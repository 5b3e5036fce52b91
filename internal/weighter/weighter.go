// Package weighter maintains ranked preference queues per member and for
// the household as a whole, refreshed once per week.
package weighter

import (
	"pantry-planner/internal/food"
	"pantry-planner/internal/history"
	"pantry-planner/internal/household"
	"pantry-planner/internal/rank"
	"pantry-planner/internal/week"
)

// Weighter turns raw preferences and recent history into ranked queues.
type Weighter struct {
	catalog   *food.Catalog
	members   map[food.MealCategory]map[household.MemberName][]rank.FoodScore
	aggregate map[food.MealCategory][]rank.FoodScore
}

// New creates a weighter over a food catalog.
func New(catalog *food.Catalog) *Weighter {
	return &Weighter{
		catalog:   catalog,
		members:   make(map[food.MealCategory]map[household.MemberName][]rank.FoodScore),
		aggregate: make(map[food.MealCategory][]rank.FoodScore),
	}
}

// Refresh rebuilds every queue for the given week. A food the member was
// served before the week starts has its weight scaled by the recency decay
// of the last time it was served.
func (w *Weighter) Refresh(weekNum int, h *history.MealHistory, members []household.Member) {
	start := week.GlobalDay(weekNum, week.Monday)
	for _, cat := range food.Categories() {
		foods := w.catalog.Foods(cat)
		perMember := make(map[household.MemberName][]rank.FoodScore, len(members))
		sums := make(map[food.FoodType]float64, len(foods))

		for _, m := range members {
			scores := make([]rank.FoodScore, 0, len(foods))
			for _, f := range foods {
				score := m.PreferenceWeight(f)
				if last, ok := h.LastServed(m.Name, cat, f, start); ok {
					score *= history.DecayScale(start - last)
				}
				scores = append(scores, rank.FoodScore{Food: f, Score: score})
				sums[f] += score
			}
			rank.SortFoods(scores)
			perMember[m.Name] = scores
		}

		agg := make([]rank.FoodScore, 0, len(foods))
		if len(members) > 0 {
			for _, f := range foods {
				agg = append(agg, rank.FoodScore{Food: f, Score: sums[f] / float64(len(members))})
			}
		}
		rank.SortFoods(agg)

		w.members[cat] = perMember
		w.aggregate[cat] = agg
	}
}

// MemberQueues returns a fresh queue per member for one category.
func (w *Weighter) MemberQueues(cat food.MealCategory) map[household.MemberName]*rank.Queue[rank.FoodScore] {
	out := make(map[household.MemberName]*rank.Queue[rank.FoodScore], len(w.members[cat]))
	for name, scores := range w.members[cat] {
		out[name] = rank.NewQueue(rank.ByScoreDescending, scores...)
	}
	return out
}

// AggregateQueue returns the household's mean-score queue for one category.
func (w *Weighter) AggregateQueue(cat food.MealCategory) *rank.Queue[rank.FoodScore] {
	return rank.NewQueue(rank.ByScoreDescending, w.aggregate[cat]...)
}
