package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pantry-planner/internal/planner"
	"pantry-planner/internal/shopping"
)

// WeekExport is the on-disk record of one planned week.
type WeekExport struct {
	RunID    string           `json:"run_id"`
	Week     int              `json:"week"`
	Plan     planner.Document `json:"plan"`
	Shopping []shopping.Item  `json:"shopping"`
	Pantry   map[string]int   `json:"pantry_after"`
}

// PlanExporter writes one JSON file per planned week, grouped by run.
type PlanExporter struct {
	basePath string
}

// NewPlanExporter creates an exporter and ensures the base directory exists.
func NewPlanExporter(basePath string) (*PlanExporter, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory %s: %w", basePath, err)
	}
	return &PlanExporter{basePath: basePath}, nil
}

func (s *PlanExporter) weekPath(runID string, week int) string {
	return filepath.Join(s.basePath, runID, fmt.Sprintf("week_%03d.json", week))
}

// Save writes a week's export.
func (s *PlanExporter) Save(export WeekExport) error {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal week export: %w", err)
	}

	filePath := s.weekPath(export.RunID, export.Week)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write week export: %w", err)
	}
	return nil
}

// Load reads a week's export back.
func (s *PlanExporter) Load(runID string, week int) (*WeekExport, error) {
	data, err := os.ReadFile(s.weekPath(runID, week))
	if err != nil {
		return nil, fmt.Errorf("failed to read week export: %w", err)
	}

	var export WeekExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to unmarshal week export: %w", err)
	}
	return &export, nil
}

// Exists checks whether a week has been exported.
func (s *PlanExporter) Exists(runID string, week int) bool {
	_, err := os.Stat(s.weekPath(runID, week))
	return !os.IsNotExist(err)
}

// RemoveRun deletes every export of a run.
func (s *PlanExporter) RemoveRun(runID string) error {
	matches, err := filepath.Glob(filepath.Join(s.basePath, runID, "week_*.json"))
	if err != nil {
		return fmt.Errorf("failed to glob run exports: %w", err)
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return fmt.Errorf("failed to remove export %s: %w", match, err)
		}
	}
	return nil
}
