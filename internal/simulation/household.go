package simulation

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"pantry-planner/internal/food"
	"pantry-planner/internal/household"
)

// MemberSource supplies the household for each simulated week.
type MemberSource interface {
	MembersForWeek(week int) []household.Member
}

// driftFrequency controls how fast preferences wander from week to week.
const driftFrequency = 0.15

// NoisyHousehold is a generated household whose tastes drift over time.
// Base preferences are drawn once from the seed; each week adds smooth
// OpenSimplex noise on top, so neighbouring weeks stay similar.
type NoisyHousehold struct {
	catalog *food.Catalog
	names   []household.MemberName
	base    map[household.MemberName]map[food.FoodType]float64
	noise   opensimplex.Noise
	drift   float64
}

// NewNoisyHousehold generates size members. drift is the largest weekly
// swing of any single preference.
func NewNoisyHousehold(catalog *food.Catalog, size int, seed int64, drift float64) *NoisyHousehold {
	rng := rand.New(rand.NewSource(seed))
	h := &NoisyHousehold{
		catalog: catalog,
		base:    make(map[household.MemberName]map[food.FoodType]float64, size),
		noise:   opensimplex.New(seed + 1),
		drift:   drift,
	}
	for i := range size {
		name := household.MemberName(fmt.Sprintf("member%d", i+1))
		prefs := make(map[food.FoodType]float64)
		for _, f := range catalog.All() {
			prefs[f] = rng.Float64()
		}
		h.names = append(h.names, name)
		h.base[name] = prefs
	}
	return h
}

// MembersForWeek returns every member with this week's drifted preferences.
func (h *NoisyHousehold) MembersForWeek(week int) []household.Member {
	members := make([]household.Member, 0, len(h.names))
	for i, name := range h.names {
		prefs := make(map[food.FoodType]float64)
		for j, f := range h.catalog.All() {
			// One noise lane per member and food.
			n := h.noise.Eval2(float64(week)*driftFrequency, float64(i*1000+j))
			prefs[f] = math.Max(0, h.base[name][f]+h.drift*n)
		}
		members = append(members, household.Member{Name: name, Preferences: prefs})
	}
	return members
}
