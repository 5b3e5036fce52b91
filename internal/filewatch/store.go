package filewatch

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"pantry-planner/internal/food"
	"pantry-planner/internal/household"
)

// ErrMembersChanged is returned when a reload adds, drops or renames members.
var ErrMembersChanged = errors.New("household members changed")

// HouseholdStore holds the current household, safe for concurrent reloads
// while a simulation reads it.
type HouseholdStore struct {
	mu      sync.RWMutex
	catalog *food.Catalog
	members []household.Member
	version int
}

// NewHouseholdStore creates an empty store.
func NewHouseholdStore(catalog *food.Catalog) *HouseholdStore {
	return &HouseholdStore{catalog: catalog}
}

// LoadFile replaces the household with the contents of a CSV file. On a
// parse error the previous household is kept.
func (s *HouseholdStore) LoadFile(path string) error {
	members, err := household.ParseFile(path, s.catalog)
	if err != nil {
		return fmt.Errorf("failed to load household from %s: %w", path, err)
	}
	s.Update(members)
	return nil
}

// Reload replaces the household's preferences from a CSV file. The file
// must list the same members as the loaded household; otherwise, as on a
// parse error, the previous household is kept.
func (s *HouseholdStore) Reload(path string) error {
	members, err := household.ParseFile(path, s.catalog)
	if err != nil {
		return fmt.Errorf("failed to load household from %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.members) > 0 && !sameNames(s.members, members) {
		return fmt.Errorf("%w: loaded %v, file has %v", ErrMembersChanged,
			household.Names(s.members), household.Names(members))
	}
	s.members = slices.Clone(members)
	s.version++
	return nil
}

func sameNames(a, b []household.Member) bool {
	an, bn := household.Names(a), household.Names(b)
	slices.Sort(an)
	slices.Sort(bn)
	return slices.Equal(an, bn)
}

// Update swaps in a new household.
func (s *HouseholdStore) Update(members []household.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = slices.Clone(members)
	s.version++
}

// Members returns the current household.
func (s *HouseholdStore) Members() []household.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.members)
}

// MembersForWeek returns the household as loaded when the week starts.
func (s *HouseholdStore) MembersForWeek(int) []household.Member {
	return s.Members()
}

// Version counts successful reloads.
func (s *HouseholdStore) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
