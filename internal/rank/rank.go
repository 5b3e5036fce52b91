// Package rank provides named ordering strategies and the priority queues
// built on them. Every strategy breaks ties by identity so orderings are
// reproducible for identical inputs.
package rank

import (
	"cmp"
	"slices"

	"pantry-planner/internal/food"
	"pantry-planner/internal/household"
)

// Comparator orders two values: negative when a comes first.
type Comparator[T any] func(a, b T) int

// FoodScore is a food paired with a ranking score.
type FoodScore struct {
	Food  food.FoodType `json:"food"`
	Score float64       `json:"score"`
}

// MemberScore is a member paired with their satisfaction average and the
// weight derived from it.
type MemberScore struct {
	Name         household.MemberName `json:"name"`
	Satisfaction float64              `json:"satisfaction"`
	Weight       float64              `json:"weight"`
}

// ByScoreDescending puts the highest score first; equal scores fall back to
// food name ascending.
func ByScoreDescending(a, b FoodScore) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.Food, b.Food)
}

// BySatisfactionAscending puts the least satisfied member first; equal
// averages fall back to member name ascending.
func BySatisfactionAscending(a, b MemberScore) int {
	if c := cmp.Compare(a.Satisfaction, b.Satisfaction); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

// Queue is a priority queue ordered by a Comparator. Items are kept sorted,
// the head being the next to pop.
type Queue[T any] struct {
	items []T
}

// NewQueue creates a queue holding items in strategy order.
func NewQueue[T any](c Comparator[T], items ...T) *Queue[T] {
	q := &Queue[T]{items: slices.Clone(items)}
	slices.SortStableFunc(q.items, c)
	return q
}

// Pop removes and returns the head.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

// Peek returns the head without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.items[0], true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Items returns the queued items in order without draining the queue.
func (q *Queue[T]) Items() []T {
	return slices.Clone(q.items)
}

// Truncate keeps only the first n items. n <= 0 leaves the queue as is.
func (q *Queue[T]) Truncate(n int) {
	if n > 0 && n < len(q.items) {
		q.items = q.items[:n]
	}
}

// SortFoods orders food scores in place with ByScoreDescending.
func SortFoods(scores []FoodScore) {
	slices.SortFunc(scores, ByScoreDescending)
}
