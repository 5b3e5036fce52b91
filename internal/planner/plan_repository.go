package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// StoredPlan is a persisted plan row.
type StoredPlan struct {
	ID        int64     `db:"id"`
	RunID     string    `db:"run_id"`
	Week      int       `db:"week"`
	Status    string    `db:"status"`
	PlanData  []byte    `db:"plan_data"`
	CreatedAt time.Time `db:"created_at"`
}

// Plan decodes the stored document.
func (s StoredPlan) Plan() (*MealPlan, error) {
	var doc Document
	if err := json.Unmarshal(s.PlanData, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan for week %d: %w", s.Week, err)
	}
	return FromDocument(doc)
}

// PlanRepository is a database-backed repository for meal plans.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save stores a week's plan, replacing any earlier plan for that run and week.
func (r *PlanRepository) Save(ctx context.Context, runID string, plan *MealPlan) error {
	data, err := json.Marshal(plan.Document())
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT OR REPLACE INTO meal_plans
		(run_id, week, status, plan_data, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, plan.Week, string(plan.Status), string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert meal plan for week %d: %w", plan.Week, err)
	}
	return nil
}

// GetByWeek retrieves the plan of one week of a run.
func (r *PlanRepository) GetByWeek(ctx context.Context, runID string, week int) (*MealPlan, error) {
	var row StoredPlan
	err := r.db.GetContext(ctx, &row,
		"SELECT id, run_id, week, status, plan_data, created_at FROM meal_plans WHERE run_id = ? AND week = ?",
		runID, week)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No plan found
		}
		return nil, fmt.Errorf("failed to get meal plan for week %d: %w", week, err)
	}
	return row.Plan()
}

// ListRecentByRun retrieves the N most recent weeks of a run, latest first.
func (r *PlanRepository) ListRecentByRun(ctx context.Context, runID string, limit int) ([]StoredPlan, error) {
	var rows []StoredPlan
	err := r.db.SelectContext(ctx, &rows,
		"SELECT id, run_id, week, status, plan_data, created_at FROM meal_plans WHERE run_id = ? ORDER BY week DESC LIMIT ?",
		runID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal plans for run %s: %w", runID, err)
	}
	return rows, nil
}

// LatestRunID returns the run that stored a plan most recently, or "" when
// nothing has been stored.
func (r *PlanRepository) LatestRunID(ctx context.Context) (string, error) {
	var runID string
	err := r.db.GetContext(ctx, &runID, "SELECT run_id FROM meal_plans ORDER BY created_at DESC, id DESC LIMIT 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get latest run: %w", err)
	}
	return runID, nil
}
