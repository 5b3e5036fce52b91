package telegram

import (
	"strings"
	"testing"

	"pantry-planner/internal/food"
	"pantry-planner/internal/household"
	"pantry-planner/internal/metrics"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/shopping"
	"pantry-planner/internal/week"
)

func TestFormatPlanMarkdownParts(t *testing.T) {
	plan := planner.NewMealPlan(3, []household.MemberName{"big_al", "cy"})
	plan.Assign(week.Monday, "big_al", food.Breakfast, "breakfast02")
	plan.Assign(week.Monday, "big_al", food.Dinner, "dinner04")
	list := &shopping.ShoppingList{
		Week: 3,
		Items: []shopping.Item{
			{Food: "lunch01", Category: food.Lunch, Units: 700},
			{Food: "dinner04", Category: food.Dinner, Units: 800},
		},
	}

	planOutput, shoppingOutput := formatPlanMarkdownParts(plan, list)

	if !strings.Contains(planOutput, "📅 *Week 3 Meal Plan*") {
		t.Error("Missing plan header")
	}
	if !strings.Contains(planOutput, `• big\_al: breakfast02 / - / dinner04`) {
		t.Errorf("Missing Monday meals with escaped name, got:\n%s", planOutput)
	}
	if strings.Contains(planOutput, "cy:") {
		t.Error("Expected members without meals to be skipped")
	}
	if !strings.Contains(shoppingOutput, "🛒 *Shopping List*") {
		t.Error("Missing shopping list header")
	}
	if !strings.Contains(shoppingOutput, "• lunch01 x700") {
		t.Error("Missing shopping item")
	}
	if !strings.Contains(shoppingOutput, "📦 *Total:* 1,500 units") {
		t.Errorf("Missing total, got:\n%s", shoppingOutput)
	}

	t.Run("NoList", func(t *testing.T) {
		_, shoppingOutput := formatPlanMarkdownParts(plan, nil)
		if !strings.Contains(shoppingOutput, "_Nothing ordered_") {
			t.Error("Expected empty-list placeholder")
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		rejected := planner.NewMealPlan(4, []household.MemberName{"cy"})
		rejected.Status = planner.StatusRejected
		planOutput, _ := formatPlanMarkdownParts(rejected, nil)
		if !strings.Contains(planOutput, "Plan rejected") {
			t.Error("Expected rejection note")
		}
	})
}

func TestFormatMetrics(t *testing.T) {
	out := formatMetrics(&metrics.RunSummary{Weeks: 4, RejectedWeeks: 1, MealsServed: 1234, AvgSatisfaction: 0.5},
		metrics.SysHealth{Alloc: "1 MB", Sys: "8 MB", Goroutines: 3, DataDiskSize: "12 kB"})
	for _, want := range []string{"• Weeks: 4 (1 rejected)", "• Meals served: 1,234", "• Disk Data: 12 kB"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}
	if !strings.Contains(formatMetrics(nil, metrics.SysHealth{}), "_No data yet_") {
		t.Error("Expected placeholder without a summary")
	}
}

func TestIsAllowed(t *testing.T) {
	if !isAllowed([]int64{5, 9}, 9) {
		t.Error("Expected 9 to be allowed")
	}
	if isAllowed(nil, 9) {
		t.Error("Expected nobody allowed with an empty list")
	}
}
