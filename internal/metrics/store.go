package metrics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// WeekMetric records the outcome of planning one week of a run.
type WeekMetric struct {
	ID              int64     `db:"id" json:"-"`
	RunID           string    `db:"run_id" json:"run_id"`
	Week            int       `db:"week" json:"week"`
	Status          string    `db:"status" json:"status"`
	MealsServed     int       `db:"meals_served" json:"meals_served"`
	EmptySlots      int       `db:"empty_slots" json:"empty_slots"`
	AvgSatisfaction float64   `db:"avg_satisfaction" json:"avg_satisfaction"`
	MinSatisfaction float64   `db:"min_satisfaction" json:"min_satisfaction"`
	UnitsRequested  int       `db:"units_requested" json:"units_requested"`
	UnitsDelivered  int       `db:"units_delivered" json:"units_delivered"`
	PantryUnits     int       `db:"pantry_units" json:"pantry_units"`
	DurationMS      int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sqlx.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m WeekMetric) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO week_metrics
		(run_id, week, status, meals_served, empty_slots, avg_satisfaction, min_satisfaction,
		 units_requested, units_delivered, pantry_units, duration_ms, created_at)
		VALUES (:run_id, :week, :status, :meals_served, :empty_slots, :avg_satisfaction, :min_satisfaction,
		 :units_requested, :units_delivered, :pantry_units, :duration_ms, :created_at)`, m)
	if err != nil {
		return fmt.Errorf("failed to record metric for week %d: %w", m.Week, err)
	}
	return nil
}

// ListByRun returns a run's metrics in week order.
func (s *Store) ListByRun(ctx context.Context, runID string) ([]WeekMetric, error) {
	var rows []WeekMetric
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM week_metrics WHERE run_id = ? ORDER BY week, id", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics for run %s: %w", runID, err)
	}
	return rows, nil
}

// RunSummary aggregates a run's weekly metrics.
type RunSummary struct {
	RunID           string  `db:"run_id" json:"run_id"`
	Weeks           int     `db:"weeks" json:"weeks"`
	RejectedWeeks   int     `db:"rejected_weeks" json:"rejected_weeks"`
	MealsServed     int     `db:"meals_served" json:"meals_served"`
	EmptySlots      int     `db:"empty_slots" json:"empty_slots"`
	AvgSatisfaction float64 `db:"avg_satisfaction" json:"avg_satisfaction"`
	UnitsDelivered  int     `db:"units_delivered" json:"units_delivered"`
}

// GetRunSummary aggregates a run. It returns nil when the run has no metrics.
func (s *Store) GetRunSummary(ctx context.Context, runID string) (*RunSummary, error) {
	var summary RunSummary
	err := s.db.GetContext(ctx, &summary, `SELECT run_id,
			COUNT(*) AS weeks,
			SUM(CASE WHEN status = 'REJECTED' THEN 1 ELSE 0 END) AS rejected_weeks,
			SUM(meals_served) AS meals_served,
			SUM(empty_slots) AS empty_slots,
			AVG(avg_satisfaction) AS avg_satisfaction,
			SUM(units_delivered) AS units_delivered
		FROM week_metrics WHERE run_id = ? GROUP BY run_id`, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to summarise run %s: %w", runID, err)
	}
	return &summary, nil
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := s.db.ExecContext(ctx, "DELETE FROM week_metrics WHERE created_at < ?", threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return res.RowsAffected()
}
