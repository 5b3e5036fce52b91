package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"pantry-planner/internal/agent"
	"pantry-planner/internal/config"
	"pantry-planner/internal/database"
	"pantry-planner/internal/filewatch"
	"pantry-planner/internal/food"
	"pantry-planner/internal/history"
	"pantry-planner/internal/metrics"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/shopping"
	"pantry-planner/internal/simulation"
	"pantry-planner/internal/storage"
)

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	catalog      *food.Catalog
	db           *database.DB
	planRepo     *planner.PlanRepository
	shoppingRepo *shopping.Repository
	historyRepo  *history.Repository
	metricsStore *metrics.Store
	exporter     *storage.PlanExporter
}

// NewApp wires the repositories onto an open database. exporter may be nil.
func NewApp(cfg *config.Config, db *database.DB, exporter *storage.PlanExporter) *App {
	return &App{
		cfg:          cfg,
		catalog:      food.DefaultCatalog(),
		db:           db,
		planRepo:     planner.NewPlanRepository(db.SQL),
		shoppingRepo: shopping.NewRepository(db.SQL),
		historyRepo:  history.NewRepository(db.SQL),
		metricsStore: metrics.NewStore(db.SQL),
		exporter:     exporter,
	}
}

// SimulateOptions configures one simulation run.
type SimulateOptions struct {
	Weeks        int
	Members      int
	Capacity     int
	Seed         int64
	Drift        float64
	HouseholdCSV string
	// Watch reloads the household CSV while the run is in progress.
	Watch bool
}

// OptionsFromConfig fills simulation options from configuration.
func OptionsFromConfig(cfg *config.Config) SimulateOptions {
	return SimulateOptions{
		Weeks:        cfg.Weeks,
		Members:      cfg.HouseholdSize,
		Capacity:     cfg.PantryCapacity,
		Seed:         cfg.Seed,
		Drift:        0.15,
		HouseholdCSV: cfg.HouseholdCSV,
	}
}

// Simulate runs the planning agent for opts.Weeks weeks, persisting every
// week as it completes. It returns the run ID and per-week statistics.
func (a *App) Simulate(ctx context.Context, opts SimulateOptions) (string, []simulation.WeekStats, error) {
	if opts.Capacity < 1 {
		return "", nil, fmt.Errorf("pantry capacity must be at least 1, got %d", opts.Capacity)
	}
	source, err := a.memberSource(ctx, opts)
	if err != nil {
		return "", nil, err
	}

	memberCount := len(source.MembersForWeek(1))
	if memberCount == 0 {
		return "", nil, fmt.Errorf("household has no members")
	}

	sim := simulation.New(
		simulation.Config{PantryCapacity: opts.Capacity},
		a.catalog,
		source,
		agent.New(opts.Capacity, a.catalog),
	)
	log.Printf("Starting run %s: %d weeks, %d members, pantry capacity %d",
		sim.RunID(), opts.Weeks, memberCount, opts.Capacity)

	stats, err := sim.Run(ctx, opts.Weeks, a.persistWeek)
	if err != nil {
		return sim.RunID(), stats, fmt.Errorf("simulation stopped: %w", err)
	}
	return sim.RunID(), stats, nil
}

func (a *App) memberSource(ctx context.Context, opts SimulateOptions) (simulation.MemberSource, error) {
	if opts.HouseholdCSV == "" {
		return simulation.NewNoisyHousehold(a.catalog, opts.Members, opts.Seed, opts.Drift), nil
	}

	store := filewatch.NewHouseholdStore(a.catalog)
	if err := store.LoadFile(opts.HouseholdCSV); err != nil {
		return nil, err
	}
	if opts.Watch {
		fw, err := filewatch.NewFileWatcher([]string{filepath.Dir(opts.HouseholdCSV)}, store)
		if err != nil {
			return nil, fmt.Errorf("failed to watch household file: %w", err)
		}
		go func() {
			fw.Watch(ctx)
			fw.Close()
		}()
	}
	return store, nil
}

// persistWeek stores everything a simulated week produced.
func (a *App) persistWeek(ctx context.Context, o simulation.WeekOutcome) error {
	if err := a.planRepo.Save(ctx, o.RunID, o.Plan); err != nil {
		return err
	}
	if _, err := a.shoppingRepo.Save(ctx, o.List.Snapshot(o.RunID)); err != nil {
		return err
	}
	if err := a.historyRepo.AppendWeek(ctx, o.RunID, o.History, o.Stats.Week); err != nil {
		return err
	}

	s := o.Stats
	if err := a.metricsStore.Record(ctx, metrics.WeekMetric{
		RunID:           o.RunID,
		Week:            s.Week,
		Status:          string(s.Status),
		MealsServed:     s.MealsServed,
		EmptySlots:      s.EmptySlots,
		AvgSatisfaction: s.AvgSatisfaction,
		MinSatisfaction: s.MinSatisfaction,
		UnitsRequested:  s.UnitsRequested,
		UnitsDelivered:  s.UnitsDelivered,
		PantryUnits:     s.PantryUnits,
		DurationMS:      s.Duration.Milliseconds(),
	}); err != nil {
		// Metrics are best effort.
		log.Printf("Warning: failed to record metrics for week %d: %v", s.Week, err)
	}

	if a.exporter != nil {
		pantry := make(map[string]int)
		for _, f := range o.Pantry.Catalog().All() {
			if n := o.Pantry.CountOf(f); n > 0 {
				pantry[string(f)] = n
			}
		}
		if err := a.exporter.Save(storage.WeekExport{
			RunID:    o.RunID,
			Week:     s.Week,
			Plan:     o.Plan.Document(),
			Shopping: o.List.Items(),
			Pantry:   pantry,
		}); err != nil {
			log.Printf("Warning: failed to export week %d: %v", s.Week, err)
		}
	}
	return nil
}

// Report prints a stored week. An empty runID selects the latest run.
func (a *App) Report(ctx context.Context, w io.Writer, runID string, week int) error {
	if runID == "" {
		latest, err := a.planRepo.LatestRunID(ctx)
		if err != nil {
			return err
		}
		if latest == "" {
			return fmt.Errorf("no runs stored yet")
		}
		runID = latest
	}

	plan, err := a.planRepo.GetByWeek(ctx, runID, week)
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil {
		return fmt.Errorf("run %s has no plan for week %d", runID, week)
	}
	list, err := a.shoppingRepo.GetByWeek(ctx, runID, week)
	if err != nil {
		return fmt.Errorf("failed to load shopping list: %w", err)
	}

	fmt.Fprintf(w, "Run %s\n", runID)
	WritePlan(w, plan, list)

	summary, err := a.metricsStore.GetRunSummary(ctx, runID)
	if err != nil {
		return err
	}
	if summary != nil {
		fmt.Fprintf(w, "\n=== RUN SUMMARY ===\n%s weeks, %s meals served, %s rejected, mean satisfaction %.3f\n",
			humanize.Comma(int64(summary.Weeks)), humanize.Comma(int64(summary.MealsServed)),
			humanize.Comma(int64(summary.RejectedWeeks)), summary.AvgSatisfaction)
	}
	return nil
}

// WritePlan renders a plan and its shopping list as plain text.
func WritePlan(w io.Writer, plan *planner.MealPlan, list *shopping.ShoppingList) {
	fmt.Fprintf(w, "\n=== WEEK %d MEAL PLAN (%s) ===\n", plan.Week, plan.Status)
	if plan.IsEmpty() {
		fmt.Fprintln(w, "No meals planned.")
	}
	for _, dp := range plan.DayPlans() {
		var meals []string
		for _, m := range dp.Meals {
			if m.Breakfast == "" && m.Lunch == "" && m.Dinner == "" {
				continue
			}
			meals = append(meals, fmt.Sprintf("%s: %s/%s/%s", m.Member, dash(m.Breakfast), dash(m.Lunch), dash(m.Dinner)))
		}
		if len(meals) > 0 {
			fmt.Fprintf(w, "%-10s %s\n", dp.Day, strings.Join(meals, ", "))
		}
	}

	if list == nil {
		return
	}
	fmt.Fprintln(w, "\n=== SHOPPING LIST ===")
	for _, item := range list.Items {
		fmt.Fprintf(w, "- %s x%d (%s)\n", item.Food, item.Units, item.Category)
	}
}

func dash(f food.FoodType) string {
	if f == "" {
		return "-"
	}
	return string(f)
}

// CleanupMetrics deletes metrics older than the given number of days.
func (a *App) CleanupMetrics(ctx context.Context, olderThanDays int) (int64, error) {
	return a.metricsStore.Cleanup(ctx, olderThanDays)
}
