package planner

import (
	"cmp"
	"log"
	"slices"

	"pantry-planner/internal/food"
	"pantry-planner/internal/history"
	"pantry-planner/internal/household"
	"pantry-planner/internal/rank"
	"pantry-planner/internal/week"
)

// DefaultDinnerChoices is how many dinner candidates the dinner pass draws from.
const DefaultDinnerChoices = 6

// DinnerSource ranks the dinners the pantry can cover.
type DinnerSource interface {
	DinnerCandidates(topN int, inventory map[food.FoodType]int) *rank.Queue[rank.FoodScore]
}

// Result is what one planning call hands back to the caller.
type Result struct {
	Plan *MealPlan
	// Remaining is the pantry after the plan is served.
	Remaining *food.Pantry
	// Snapshot is the pantry as it stood at week start.
	Snapshot *food.Pantry
}

// Assigner fills a week's grid from the pantry, day by day and member by member.
type Assigner struct {
	DinnerChoices int
}

// NewAssigner creates an assigner with the default dinner candidate count.
func NewAssigner() *Assigner {
	return &Assigner{DinnerChoices: DefaultDinnerChoices}
}

// weekState is the working set of one Assign call. Nothing in it outlives
// the call.
type weekState struct {
	week     int
	members  []household.Member
	pantry   *food.Pantry
	history  *history.MealHistory
	plan     *MealPlan
	prefs    map[household.MemberName]map[food.MealCategory][]rank.FoodScore
	priority map[food.MealCategory][]household.MemberName
}

// Assign builds the week's plan. The caller's pantry and history are left
// untouched; consumption is reported through Result.Remaining.
func (a *Assigner) Assign(weekNum int, members []household.Member, pantry *food.Pantry, h *history.MealHistory, dinners DinnerSource) Result {
	snapshot := pantry.Clone()
	s := &weekState{
		week:    weekNum,
		members: members,
		pantry:  pantry.Clone(),
		history: h,
		plan:    NewMealPlan(weekNum, household.Names(members)),
	}
	s.rebuild()

	for _, day := range week.Days() {
		order := slices.Clone(s.priority[food.Breakfast])
		for _, name := range order {
			if s.pantry.CategoryTotal(food.Breakfast) > 0 {
				if top, ok := first(s.prefs[name][food.Breakfast]); ok {
					s.serve(day, name, food.Breakfast, top.Food)
				}
			}
			if s.pantry.CategoryTotal(food.Lunch) > 0 {
				if top, ok := first(s.decayedLunch(day, name)); ok {
					s.serve(day, name, food.Lunch, top.Food)
				}
			}
			s.rebuild()
		}
	}

	s.dinnerPass(a.DinnerChoices, dinners)

	if !IsValid(s.plan, snapshot) {
		log.Printf("Week %d plan uses more food than the pantry held, discarding it", weekNum)
		rejected := NewMealPlan(weekNum, household.Names(members))
		rejected.Status = StatusRejected
		return Result{Plan: rejected, Remaining: snapshot.Clone(), Snapshot: snapshot}
	}

	s.plan.Status = StatusFinal
	return Result{Plan: s.plan, Remaining: s.pantry, Snapshot: snapshot}
}

func first(scores []rank.FoodScore) (rank.FoodScore, bool) {
	if len(scores) == 0 {
		return rank.FoodScore{}, false
	}
	return scores[0], true
}

func (s *weekState) serve(day week.Day, name household.MemberName, cat food.MealCategory, f food.FoodType) {
	if err := s.pantry.Remove(f); err != nil {
		log.Printf("Serving %s to %s on %s: %v", f, name, day, err)
	}
	s.plan.Assign(day, name, cat, f)
}

// rebuild recomputes every member's filtered preferences and the member
// priority order from the raw weights and the current pantry.
func (s *weekState) rebuild() {
	s.prefs = make(map[household.MemberName]map[food.MealCategory][]rank.FoodScore, len(s.members))
	for _, m := range s.members {
		byCat := make(map[food.MealCategory][]rank.FoodScore, 3)
		for _, cat := range food.Categories() {
			minStock := 1
			if cat == food.Dinner {
				minStock = food.MinDinnerBatch
			}
			var scores []rank.FoodScore
			for _, f := range s.pantry.Catalog().Foods(cat) {
				if s.pantry.CountOf(f) >= minStock {
					scores = append(scores, rank.FoodScore{Food: f, Score: m.PreferenceWeight(f)})
				}
			}
			rank.SortFoods(scores)
			byCat[cat] = scores
		}
		s.prefs[m.Name] = byCat
	}

	s.priority = make(map[food.MealCategory][]household.MemberName, 3)
	for _, cat := range food.Categories() {
		s.priority[cat] = s.priorityOrder(cat)
	}
}

// priorityOrder puts the member whose best available option is weakest
// first. Members with nothing available go last; ties fall back to name.
func (s *weekState) priorityOrder(cat food.MealCategory) []household.MemberName {
	names := household.Names(s.members)
	slices.SortFunc(names, func(a, b household.MemberName) int {
		ta, okA := first(s.prefs[a][cat])
		tb, okB := first(s.prefs[b][cat])
		switch {
		case okA && !okB:
			return -1
		case !okA && okB:
			return 1
		case okA && okB:
			if c := cmp.Compare(ta.Score, tb.Score); c != 0 {
				return c
			}
		}
		return cmp.Compare(a, b)
	})
	return names
}

// decayedLunch re-ranks a member's lunch options, scaling down foods they
// were served recently. Both past weeks and earlier days of this week count.
func (s *weekState) decayedLunch(day week.Day, name household.MemberName) []rank.FoodScore {
	today := week.GlobalDay(s.week, day)
	scores := slices.Clone(s.prefs[name][food.Lunch])
	for i, fs := range scores {
		last, found := s.history.LastServed(name, food.Lunch, fs.Food, today)
		for _, d := range week.Days() {
			if d >= day {
				break
			}
			if f, ok := s.plan.Get(d, name, food.Lunch); ok && f == fs.Food {
				if g := week.GlobalDay(s.week, d); !found || g > last {
					last, found = g, true
				}
			}
		}
		if found {
			scores[i].Score = fs.Score * history.DecayScale(today-last)
		}
	}
	rank.SortFoods(scores)
	return scores
}

// dinnerPass gives each day one dinner for as many members as the food's
// stock at the start of the pass covers, in household order.
func (s *weekState) dinnerPass(choices int, dinners DinnerSource) {
	if dinners == nil {
		return
	}
	inventory := s.pantry.CategoryMap(food.Dinner)
	candidates := dinners.DinnerCandidates(choices, inventory)
	for _, day := range week.Days() {
		top, ok := candidates.Pop()
		if !ok {
			return
		}
		quantity := min(inventory[top.Food], len(s.members))
		for _, m := range s.members[:quantity] {
			s.serve(day, m.Name, food.Dinner, top.Food)
		}
	}
}
