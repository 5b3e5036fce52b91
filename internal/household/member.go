package household

import (
	"maps"

	"pantry-planner/internal/food"
)

// MemberName uniquely identifies a household member.
type MemberName string

// Member is a household member and their raw food preferences.
// Higher weights mean stronger preference; missing foods weigh zero.
type Member struct {
	Name        MemberName
	Preferences map[food.FoodType]float64
}

// NewMember copies the preference map so the member stays read-only to callers.
func NewMember(name MemberName, prefs map[food.FoodType]float64) Member {
	return Member{Name: name, Preferences: maps.Clone(prefs)}
}

// PreferenceWeight returns the member's weight for a food.
func (m Member) PreferenceWeight(f food.FoodType) float64 {
	return m.Preferences[f]
}

// Names returns member names in list order.
func Names(members []Member) []MemberName {
	names := make([]MemberName, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return names
}
