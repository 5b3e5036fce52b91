package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pantry-planner/internal/app"
	"pantry-planner/internal/config"
	"pantry-planner/internal/database"
	"pantry-planner/internal/storage"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "simulate":
		opts := app.OptionsFromConfig(cfg)
		simCmd := flag.NewFlagSet("simulate", flag.ExitOnError)
		simCmd.IntVar(&opts.Weeks, "weeks", opts.Weeks, "Number of weeks to simulate")
		simCmd.IntVar(&opts.Members, "members", opts.Members, "Household size for the generated household")
		simCmd.IntVar(&opts.Capacity, "capacity", opts.Capacity, "Pantry capacity in units")
		simCmd.Int64Var(&opts.Seed, "seed", opts.Seed, "Random seed for the generated household")
		simCmd.Float64Var(&opts.Drift, "drift", opts.Drift, "Weekly preference drift for the generated household")
		simCmd.StringVar(&opts.HouseholdCSV, "household", opts.HouseholdCSV, "Household preference CSV (overrides the generated household)")
		simCmd.BoolVar(&opts.Watch, "watch", false, "Reload the household CSV when it changes")
		exportDir := simCmd.String("export", cfg.ExportDir, "Directory for per-week JSON exports")
		simCmd.Parse(os.Args[2:])

		var exporter *storage.PlanExporter
		if *exportDir != "" {
			exporter, err = storage.NewPlanExporter(*exportDir)
			if err != nil {
				log.Fatalf("Failed to initialize exporter: %v", err)
			}
		}

		application := app.NewApp(cfg, db, exporter)
		runID, stats, err := application.Simulate(ctx, opts)
		for _, s := range stats {
			fmt.Printf("Week %2d  %-8s served %4d  empty %4d  satisfaction %.3f\n",
				s.Week, s.Status, s.MealsServed, s.EmptySlots, s.AvgSatisfaction)
		}
		if err != nil {
			log.Fatalf("Run %s failed: %v", runID, err)
		}
		fmt.Printf("Run %s complete.\n", runID)
	case "report":
		reportCmd := flag.NewFlagSet("report", flag.ExitOnError)
		runID := reportCmd.String("run", cfg.RunID, "Run ID (defaults to the latest run)")
		weekNum := reportCmd.Int("week", 1, "Week to print")
		reportCmd.Parse(os.Args[2:])

		if err := app.NewApp(cfg, db, nil).Report(ctx, os.Stdout, *runID, *weekNum); err != nil {
			log.Fatalf("Report failed: %v", err)
		}
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := app.NewApp(cfg, db, nil).CleanupMetrics(ctx, *days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: pantry-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  simulate           Run the planning agent against a simulated household")
	fmt.Println("  report             Print a stored week's plan and shopping list")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
