// Package tracker keeps each household member's running satisfaction and
// ranks members and foods for the restock and dinner passes.
package tracker

import (
	"math"

	"pantry-planner/internal/food"
	"pantry-planner/internal/history"
	"pantry-planner/internal/household"
	"pantry-planner/internal/rank"
	"pantry-planner/internal/week"
)

// recentWindow is how many recorded days feed the freshness factor.
const recentWindow = week.DaysPerWeek

type memberTracker struct {
	member      household.Member
	total       float64
	mealsServed int
}

func (m *memberTracker) average() float64 {
	if m.mealsServed == 0 {
		return 0
	}
	return m.total / float64(m.mealsServed)
}

// Tracker is the household's score tracker. Satisfaction averages persist
// across weeks; everything else is recomputed by Update.
type Tracker struct {
	catalog *food.Catalog
	members map[household.MemberName]*memberTracker
	order   []household.MemberName

	lastDay int
	recent  map[food.FoodType]int
	slots   map[food.MealCategory]int
}

// New creates a tracker over a food catalog.
func New(catalog *food.Catalog) *Tracker {
	return &Tracker{
		catalog: catalog,
		members: make(map[household.MemberName]*memberTracker),
		recent:  make(map[food.FoodType]int),
		slots:   make(map[food.MealCategory]int),
	}
}

// Init registers the household. Calling it again resets all averages.
func (t *Tracker) Init(members []household.Member) {
	t.members = make(map[household.MemberName]*memberTracker, len(members))
	t.order = household.Names(members)
	t.lastDay = 0
	for _, m := range members {
		t.members[m.Name] = &memberTracker{member: m}
	}
}

// Update folds every history day not yet seen into the satisfaction
// averages and refreshes preferences and the recent-usage window. It runs
// once per week before planning.
func (t *Tracker) Update(weekNum int, h *history.MealHistory, members []household.Member) {
	for _, m := range members {
		mt, ok := t.members[m.Name]
		if !ok {
			mt = &memberTracker{}
			t.members[m.Name] = mt
			t.order = append(t.order, m.Name)
		}
		mt.member = m
	}

	for _, g := range h.GlobalDays() {
		if g <= t.lastDay {
			continue
		}
		for name, mt := range t.members {
			for _, cat := range food.Categories() {
				f, ok := h.Meal(g, name, cat)
				if !ok {
					continue
				}
				mt.total += mt.member.PreferenceWeight(f)
				mt.mealsServed++
			}
		}
		t.lastDay = g
	}

	t.refreshRecent(weekNum, h)
}

// refreshRecent counts food usage over the last recorded days before the week.
func (t *Tracker) refreshRecent(weekNum int, h *history.MealHistory) {
	clear(t.recent)
	clear(t.slots)
	start := week.GlobalDay(weekNum, week.Monday)
	for g := start - recentWindow; g < start; g++ {
		for name := range t.members {
			for _, cat := range food.Categories() {
				f, ok := h.Meal(g, name, cat)
				if !ok {
					continue
				}
				t.recent[f]++
				t.slots[cat]++
			}
		}
	}
}

// AverageSatisfaction returns a member's running average.
func (t *Tracker) AverageSatisfaction(name household.MemberName) float64 {
	if mt, ok := t.members[name]; ok {
		return mt.average()
	}
	return 0
}

func (t *Tracker) memberScore(name household.MemberName) rank.MemberScore {
	avg := t.AverageSatisfaction(name)
	return rank.MemberScore{
		Name:         name,
		Satisfaction: avg,
		Weight:       1 / (1 + math.Max(avg, 0)),
	}
}

// MembersByAverageSatisfaction returns members least satisfied first.
func (t *Tracker) MembersByAverageSatisfaction() *rank.Queue[rank.MemberScore] {
	scores := make([]rank.MemberScore, 0, len(t.order))
	for _, name := range t.order {
		scores = append(scores, t.memberScore(name))
	}
	return rank.NewQueue(rank.BySatisfactionAscending, scores...)
}

// FirstChoice returns the member's highest-preference food in a category.
func (t *Tracker) FirstChoice(name household.MemberName, cat food.MealCategory) (food.FoodType, bool) {
	mt, ok := t.members[name]
	if !ok {
		return "", false
	}
	foods := t.catalog.Foods(cat)
	if len(foods) == 0 {
		return "", false
	}
	scores := make([]rank.FoodScore, 0, len(foods))
	for _, f := range foods {
		scores = append(scores, rank.FoodScore{Food: f, Score: mt.member.PreferenceWeight(f)})
	}
	rank.SortFoods(scores)
	return scores[0].Food, true
}

// compositeScore is the satisfaction-weighted mean preference for a food,
// scaled down by how much of its category it filled recently.
func (t *Tracker) compositeScore(f food.FoodType, cat food.MealCategory) float64 {
	var weighted, weights float64
	for _, name := range t.order {
		ms := t.memberScore(name)
		weighted += ms.Weight * t.members[name].member.PreferenceWeight(f)
		weights += ms.Weight
	}
	if weights == 0 {
		return 0
	}
	freshness := 1.0
	if slots := t.slots[cat]; slots > 0 {
		freshness -= float64(t.recent[f]) / float64(slots) / 2
	}
	return weighted / weights * freshness
}

// FoodsByCompositeScore ranks a category's foods by composite score and
// keeps the top N (all foods when topN <= 0).
func (t *Tracker) FoodsByCompositeScore(cat food.MealCategory, topN int) *rank.Queue[rank.FoodScore] {
	foods := t.catalog.Foods(cat)
	scores := make([]rank.FoodScore, 0, len(foods))
	for _, f := range foods {
		scores = append(scores, rank.FoodScore{Food: f, Score: t.compositeScore(f, cat)})
	}
	q := rank.NewQueue(rank.ByScoreDescending, scores...)
	q.Truncate(topN)
	return q
}

// DinnerCandidates ranks dinners stocked in at least a minimum batch by
// composite score scaled by how much of the household the units can feed.
func (t *Tracker) DinnerCandidates(topN int, inventory map[food.FoodType]int) *rank.Queue[rank.FoodScore] {
	size := len(t.order)
	var scores []rank.FoodScore
	for _, f := range t.catalog.Foods(food.Dinner) {
		count := inventory[f]
		if count < food.MinDinnerBatch {
			continue
		}
		coverage := 1.0
		if size > 0 {
			coverage = math.Min(1, float64(count)/float64(size))
		}
		scores = append(scores, rank.FoodScore{Food: f, Score: t.compositeScore(f, food.Dinner) * coverage})
	}
	q := rank.NewQueue(rank.ByScoreDescending, scores...)
	q.Truncate(topN)
	return q
}
