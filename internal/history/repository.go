package history

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pantry-planner/internal/food"
	"pantry-planner/internal/household"
	"pantry-planner/internal/week"
)

type mealRow struct {
	RunID     string `db:"run_id"`
	GlobalDay int    `db:"global_day"`
	Member    string `db:"member"`
	Category  string `db:"category"`
	Food      string `db:"food"`
}

// Repository persists a run's meal history.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a history repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// AppendWeek stores every recorded slot of one week. Slots already stored
// are left as they are.
func (r *Repository) AppendWeek(ctx context.Context, runID string, h *MealHistory, weekNum int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	first := week.GlobalDay(weekNum, week.Monday)
	for g := first; g < first+week.DaysPerWeek; g++ {
		for member, meals := range h.days[g] {
			for cat, f := range meals {
				_, err := tx.NamedExecContext(ctx, `INSERT OR IGNORE INTO meal_history
					(run_id, global_day, member, category, food)
					VALUES (:run_id, :global_day, :member, :category, :food)`,
					mealRow{RunID: runID, GlobalDay: g, Member: string(member), Category: string(cat), Food: string(f)})
				if err != nil {
					return fmt.Errorf("failed to append history for day %d: %w", g, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

// Load rebuilds a run's history.
func (r *Repository) Load(ctx context.Context, runID string) (*MealHistory, error) {
	var rows []mealRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT run_id, global_day, member, category, food FROM meal_history WHERE run_id = ? ORDER BY global_day", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for run %s: %w", runID, err)
	}

	h := New()
	for _, row := range rows {
		weekNum, day := week.Split(row.GlobalDay)
		h.Record(weekNum, day, household.MemberName(row.Member),
			DayMeals{food.MealCategory(row.Category): food.FoodType(row.Food)})
	}
	return h, nil
}
