package tracker

import (
	"math"
	"testing"

	"pantry-planner/internal/food"
	"pantry-planner/internal/history"
	"pantry-planner/internal/household"
	"pantry-planner/internal/week"
)

func testCatalog(t *testing.T) *food.Catalog {
	t.Helper()
	c, err := food.NewCatalog(map[food.MealCategory][]food.FoodType{
		food.Breakfast: {"eggs", "toast"},
		food.Lunch:     {"soup", "wrap"},
		food.Dinner:    {"curry", "pasta", "stew"},
	})
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}
	return c
}

func testMembers() []household.Member {
	return []household.Member{
		household.NewMember("bea", map[food.FoodType]float64{"eggs": 1, "toast": 0.2, "soup": 0.5, "curry": 0.9, "pasta": 0.1}),
		household.NewMember("al", map[food.FoodType]float64{"eggs": 0.1, "toast": 0.8, "wrap": 0.7, "curry": 0.3, "pasta": 0.6}),
	}
}

func TestMembersByAverageSatisfaction(t *testing.T) {
	tr := New(testCatalog(t))
	members := testMembers()
	tr.Init(members)

	h := history.New()
	h.Record(1, week.Monday, "bea", history.DayMeals{food.Breakfast: "eggs", food.Lunch: "soup"})
	h.Record(1, week.Monday, "al", history.DayMeals{food.Breakfast: "eggs"})
	tr.Update(2, h, members)

	if got := tr.AverageSatisfaction("bea"); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Expected bea average 0.75, got %v", got)
	}
	if got := tr.AverageSatisfaction("al"); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("Expected al average 0.1, got %v", got)
	}

	q := tr.MembersByAverageSatisfaction()
	first, _ := q.Pop()
	if first.Name != "al" {
		t.Errorf("Expected least satisfied member al first, got %s", first.Name)
	}
	if first.Weight <= 1/(1+0.75) {
		t.Errorf("Expected al to weigh more than bea, got %v", first.Weight)
	}

	t.Run("DaysAreCountedOnce", func(t *testing.T) {
		tr.Update(2, h, members)
		if got := tr.AverageSatisfaction("al"); math.Abs(got-0.1) > 1e-9 {
			t.Errorf("Expected al average to stay 0.1, got %v", got)
		}
	})

	t.Run("Reproducible", func(t *testing.T) {
		a := tr.MembersByAverageSatisfaction().Items()
		b := tr.MembersByAverageSatisfaction().Items()
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("Expected identical ordering, differs at %d", i)
			}
		}
	})
}

func TestNoHistoryTiesByName(t *testing.T) {
	tr := New(testCatalog(t))
	tr.Init(testMembers())
	tr.Update(1, history.New(), testMembers())

	head, _ := tr.MembersByAverageSatisfaction().Peek()
	if head.Name != "al" || head.Weight != 1 {
		t.Errorf("Expected al with weight 1 first, got %+v", head)
	}
}

func TestFirstChoice(t *testing.T) {
	tr := New(testCatalog(t))
	tr.Init(testMembers())

	f, ok := tr.FirstChoice("al", food.Breakfast)
	if !ok || f != "toast" {
		t.Errorf("Expected toast, got %s (found=%v)", f, ok)
	}
	if _, ok := tr.FirstChoice("nobody", food.Breakfast); ok {
		t.Error("Expected no first choice for an unknown member")
	}
}

func TestFoodsByCompositeScore(t *testing.T) {
	tr := New(testCatalog(t))
	members := testMembers()
	tr.Init(members)
	tr.Update(1, history.New(), members)

	q := tr.FoodsByCompositeScore(food.Dinner, 2)
	if q.Len() != 2 {
		t.Fatalf("Expected top 2 dinners, got %d", q.Len())
	}
	head, _ := q.Pop()
	if head.Food != "curry" {
		t.Errorf("Expected curry to lead (mean 0.6), got %s", head.Food)
	}

	t.Run("RecentUsageLowersScore", func(t *testing.T) {
		h := history.New()
		for _, d := range week.Days() {
			h.Record(1, d, "bea", history.DayMeals{food.Dinner: "curry"})
			h.Record(1, d, "al", history.DayMeals{food.Dinner: "curry"})
		}
		tr.Update(2, h, members)
		head, _ := tr.FoodsByCompositeScore(food.Dinner, 0).Pop()
		if head.Food != "pasta" {
			t.Errorf("Expected pasta to overtake a week of curry, got %s", head.Food)
		}
	})
}

func TestDinnerCandidates(t *testing.T) {
	tr := New(testCatalog(t))
	members := testMembers()
	tr.Init(members)
	tr.Update(1, history.New(), members)

	t.Run("SkipsPartialBatches", func(t *testing.T) {
		q := tr.DinnerCandidates(6, map[food.FoodType]int{"curry": 2, "pasta": 4, "stew": 3})
		items := q.Items()
		if len(items) != 2 {
			t.Fatalf("Expected only dinners with a full batch, got %v", items)
		}
		if items[0].Food != "pasta" || items[1].Food != "stew" {
			t.Errorf("Expected [pasta stew], got %v", items)
		}
	})

	t.Run("CoverageScalesLargeHouseholds", func(t *testing.T) {
		big := append(testMembers(),
			household.NewMember("cy", map[food.FoodType]float64{"curry": 0.9, "pasta": 0.1}),
			household.NewMember("di", map[food.FoodType]float64{"curry": 0.9, "pasta": 0.1}),
		)
		tr := New(testCatalog(t))
		tr.Init(big)
		tr.Update(1, history.New(), big)

		items := tr.DinnerCandidates(6, map[food.FoodType]int{"curry": 3, "pasta": 4}).Items()
		if len(items) != 2 || items[0].Food != "curry" {
			t.Fatalf("Expected curry to lead, got %v", items)
		}
		if math.Abs(items[0].Score-0.75*0.75) > 1e-9 {
			t.Errorf("Expected curry scaled to 3/4 coverage (0.5625), got %v", items[0].Score)
		}
	})
}
