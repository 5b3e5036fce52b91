package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type shoppingListRow struct {
	ID        int64     `db:"id"`
	RunID     string    `db:"run_id"`
	Week      int       `db:"week"`
	Items     string    `db:"items"`
	Limits    string    `db:"limits"`
	CreatedAt time.Time `db:"created_at"`
}

// Repository handles persistence of shopping lists.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sqlx.DB) *Repository {
	return &Repository{db: d}
}

// Save stores a week's shopping list, replacing any earlier list for the
// same run and week.
func (r *Repository) Save(ctx context.Context, list *ShoppingList) (int64, error) {
	itemsJSON, err := json.Marshal(list.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list items: %w", err)
	}
	limitsJSON, err := json.Marshal(list.Limits)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list limits: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO shopping_lists
		(run_id, week, items, limits, created_at) VALUES (?, ?, ?, ?, ?)`,
		list.RunID, list.Week, string(itemsJSON), string(limitsJSON), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read shopping list id: %w", err)
	}
	return id, nil
}

// GetByWeek retrieves the shopping list of one week of a run.
func (r *Repository) GetByWeek(ctx context.Context, runID string, week int) (*ShoppingList, error) {
	var row shoppingListRow
	err := r.db.GetContext(ctx, &row,
		"SELECT id, run_id, week, items, limits, created_at FROM shopping_lists WHERE run_id = ? AND week = ?",
		runID, week)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No shopping list found
		}
		return nil, fmt.Errorf("failed to get shopping list for week %d: %w", week, err)
	}

	list := &ShoppingList{
		ID:        row.ID,
		RunID:     row.RunID,
		Week:      row.Week,
		CreatedAt: row.CreatedAt,
	}
	if err := json.Unmarshal([]byte(row.Items), &list.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	if err := json.Unmarshal([]byte(row.Limits), &list.Limits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list limits: %w", err)
	}
	return list, nil
}

// DeleteByRun removes every list of a run.
func (r *Repository) DeleteByRun(ctx context.Context, runID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM shopping_lists WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("failed to delete shopping lists for run %s: %w", runID, err)
	}
	return nil
}
