// Package agent is the household's weekly decision maker: it orders food
// before the store opens and plans the week's meals once the pantry is
// stocked.
package agent

import (
	"fmt"
	"log"

	"pantry-planner/internal/food"
	"pantry-planner/internal/history"
	"pantry-planner/internal/household"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/restock"
	"pantry-planner/internal/shopping"
	"pantry-planner/internal/tracker"
	"pantry-planner/internal/weighter"
)

// Agent keeps satisfaction learning across weeks. Everything else is rebuilt
// on each call.
type Agent struct {
	tracker     *tracker.Tracker
	weighter    *weighter.Weighter
	restock     *restock.Planner
	assigner    *planner.Assigner
	initialized bool
}

// New creates an agent for a household sharing a pantry of the given
// capacity.
func New(capacity int, catalog *food.Catalog) *Agent {
	return &Agent{
		tracker:  tracker.New(catalog),
		weighter: weighter.New(catalog),
		restock:  restock.New(capacity),
		assigner: planner.NewAssigner(),
	}
}

// Tracker exposes the satisfaction tracker for reporting.
func (a *Agent) Tracker() *tracker.Tracker {
	return a.tracker
}

func (a *Agent) refresh(weekNum int, members []household.Member, h *history.MealHistory) {
	if weekNum == 1 || !a.initialized {
		a.tracker.Init(members)
		a.initialized = true
	}
	a.tracker.Update(weekNum, h, members)
	a.weighter.Refresh(weekNum, h, members)
}

// StockPantry decides what to order this week.
func (a *Agent) StockPantry(weekNum int, members []household.Member, pantry *food.Pantry, h *history.MealHistory) (*shopping.List, error) {
	a.refresh(weekNum, members, h)
	list, err := a.restock.Plan(weekNum, pantry, a.tracker, a.weighter, members)
	if err != nil {
		return nil, fmt.Errorf("failed to build shopping list for week %d: %w", weekNum, err)
	}
	return list, nil
}

// PlanMeals assigns the week's meals from the stocked pantry. The pantry and
// history passed in are not modified.
func (a *Agent) PlanMeals(weekNum int, members []household.Member, pantry *food.Pantry, h *history.MealHistory) planner.Result {
	if !a.initialized {
		a.refresh(weekNum, members, h)
	}
	res := a.assigner.Assign(weekNum, members, pantry, h, a.tracker)
	if res.Plan.Status == planner.StatusRejected {
		log.Printf("Week %d: plan rejected, returning an empty plan", weekNum)
	}
	return res
}
