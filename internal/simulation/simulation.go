// Package simulation drives the planning agent week by week the way the
// household's grocery store and kitchen would: shop, stock, cook, remember.
package simulation

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"pantry-planner/internal/food"
	"pantry-planner/internal/history"
	"pantry-planner/internal/household"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/shopping"
	"pantry-planner/internal/week"
)

// Agent is the decision maker under simulation.
type Agent interface {
	StockPantry(week int, members []household.Member, pantry *food.Pantry, h *history.MealHistory) (*shopping.List, error)
	PlanMeals(week int, members []household.Member, pantry *food.Pantry, h *history.MealHistory) planner.Result
}

// Config sets the household's physical limits.
type Config struct {
	PantryCapacity int
}

// WeekStats summarises one simulated week.
type WeekStats struct {
	Week            int
	Status          planner.PlanStatus
	MealsServed     int
	EmptySlots      int
	AvgSatisfaction float64
	MinSatisfaction float64
	UnitsRequested  int
	UnitsDelivered  int
	PantryUnits     int
	Duration        time.Duration
}

// WeekOutcome is everything produced for one week, handed to the observer.
type WeekOutcome struct {
	RunID   string
	Stats   WeekStats
	Plan    *planner.MealPlan
	List    *shopping.List
	Pantry  *food.Pantry
	History *history.MealHistory
}

// Observer is called after every simulated week. Returning an error stops
// the run.
type Observer func(ctx context.Context, outcome WeekOutcome) error

// Simulator owns the canonical pantry and meal history of one run.
type Simulator struct {
	runID   string
	cfg     Config
	source  MemberSource
	agent   Agent
	pantry  *food.Pantry
	history *history.MealHistory
	week    int
}

// New creates a simulator with an empty pantry and a fresh run ID.
func New(cfg Config, catalog *food.Catalog, source MemberSource, agent Agent) *Simulator {
	return &Simulator{
		runID:   uuid.NewString(),
		cfg:     cfg,
		source:  source,
		agent:   agent,
		pantry:  food.NewPantry(catalog),
		history: history.New(),
	}
}

// RunID identifies this run in storage.
func (s *Simulator) RunID() string {
	return s.runID
}

// Pantry returns a copy of the current pantry.
func (s *Simulator) Pantry() *food.Pantry {
	return s.pantry.Clone()
}

// History returns the run's meal history.
func (s *Simulator) History() *history.MealHistory {
	return s.history
}

// Run simulates the given number of weeks, continuing from the last
// simulated week. Cancellation is checked between weeks.
func (s *Simulator) Run(ctx context.Context, weeks int, observe Observer) ([]WeekStats, error) {
	var all []WeekStats
	for range weeks {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		outcome, err := s.Step()
		if err != nil {
			return all, err
		}
		all = append(all, outcome.Stats)
		if observe != nil {
			if err := observe(ctx, outcome); err != nil {
				return all, fmt.Errorf("failed to observe week %d: %w", outcome.Stats.Week, err)
			}
		}
	}
	return all, nil
}

// Step simulates a single week.
func (s *Simulator) Step() (WeekOutcome, error) {
	s.week++
	start := time.Now()
	members := s.source.MembersForWeek(s.week)
	if len(members) == 0 {
		return WeekOutcome{}, fmt.Errorf("no household members for week %d", s.week)
	}

	list, err := s.agent.StockPantry(s.week, members, s.pantry.Clone(), s.history)
	if err != nil {
		return WeekOutcome{}, fmt.Errorf("failed to stock pantry for week %d: %w", s.week, err)
	}
	delivered := Fulfil(list, s.pantry, s.cfg.PantryCapacity)

	res := s.agent.PlanMeals(s.week, members, s.pantry.Clone(), s.history)
	if err := s.consume(res.Plan); err != nil {
		return WeekOutcome{}, fmt.Errorf("failed to serve week %d: %w", s.week, err)
	}
	res.Plan.RecordTo(s.history)

	stats := weekStats(res.Plan, members)
	stats.UnitsRequested = list.Requested()
	stats.UnitsDelivered = delivered
	stats.PantryUnits = s.pantry.Total()
	stats.Duration = time.Since(start)

	log.Printf("Week %d: %s, %d meals served, %d empty slots, satisfaction %.3f",
		stats.Week, stats.Status, stats.MealsServed, stats.EmptySlots, stats.AvgSatisfaction)

	return WeekOutcome{
		RunID:   s.runID,
		Stats:   stats,
		Plan:    res.Plan,
		List:    list,
		Pantry:  s.pantry.Clone(),
		History: s.history,
	}, nil
}

// consume takes a plan's food out of the canonical pantry.
func (s *Simulator) consume(plan *planner.MealPlan) error {
	if !planner.IsValid(plan, s.pantry) {
		return fmt.Errorf("plan uses more food than the pantry holds")
	}
	for f, used := range plan.Usage() {
		for range used {
			if err := s.pantry.Remove(f); err != nil {
				return err
			}
		}
	}
	return nil
}

func weekStats(plan *planner.MealPlan, members []household.Member) WeekStats {
	stats := WeekStats{Week: plan.Week, Status: plan.Status}
	slots := len(members) * week.DaysPerWeek * len(food.Categories())

	var sum float64
	minSat := math.Inf(1)
	for _, m := range members {
		var total float64
		served := 0
		for _, d := range week.Days() {
			for _, cat := range food.Categories() {
				if f, ok := plan.Get(d, m.Name, cat); ok {
					total += m.PreferenceWeight(f)
					served++
				}
			}
		}
		stats.MealsServed += served
		avg := 0.0
		if served > 0 {
			avg = total / float64(served)
		}
		sum += avg
		minSat = math.Min(minSat, avg)
	}
	stats.EmptySlots = slots - stats.MealsServed
	if len(members) > 0 {
		stats.AvgSatisfaction = sum / float64(len(members))
		stats.MinSatisfaction = minSat
	}
	return stats
}
