package household

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"pantry-planner/internal/food"
)

var expectedHeader = []string{"member", "food", "weight"}

// ParseFile reads a household preference CSV from disk.
func ParseFile(path string, catalog *food.Catalog) ([]Member, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening household file: %w", err)
	}
	defer f.Close()

	return Parse(f, catalog)
}

// Parse reads "member,food,weight" rows. Members keep the order in which
// they first appear in the file.
func Parse(r io.Reader, catalog *food.Catalog) ([]Member, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != len(expectedHeader) {
		return nil, fmt.Errorf("invalid header length: expected %d columns, got %d", len(expectedHeader), len(header))
	}
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) != expectedHeader[i] {
			return nil, fmt.Errorf("invalid header: expected %s at position %d, got %s", expectedHeader[i], i, h)
		}
	}

	var order []MemberName
	prefs := make(map[MemberName]map[food.FoodType]float64)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}

		name := MemberName(strings.TrimSpace(record[0]))
		if name == "" {
			return nil, fmt.Errorf("line %d: empty member name", line)
		}
		foodType := food.FoodType(strings.TrimSpace(record[1]))
		if _, ok := catalog.CategoryOf(foodType); !ok {
			return nil, fmt.Errorf("line %d: unknown food %s", line, foodType)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid weight: %w", line, err)
		}
		if math.IsNaN(weight) || math.IsInf(weight, 0) {
			return nil, fmt.Errorf("line %d: weight must be a finite number, got %v", line, weight)
		}
		if weight < 0 {
			return nil, fmt.Errorf("line %d: weight must be non-negative, got %v", line, weight)
		}

		if _, ok := prefs[name]; !ok {
			prefs[name] = make(map[food.FoodType]float64)
			order = append(order, name)
		}
		prefs[name][foodType] = weight
	}

	members := make([]Member, 0, len(order))
	for _, name := range order {
		members = append(members, Member{Name: name, Preferences: prefs[name]})
	}
	return members, nil
}
