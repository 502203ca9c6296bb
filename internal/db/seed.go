package db

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/voss/pivotboard/internal/models"
	"github.com/voss/pivotboard/internal/pivot"
)

// SeedPhase is one phase's cells in a seed file. Absent fields stay NULL.
type SeedPhase struct {
	Work      *string    `yaml:"work"`
	Appr      *string    `yaml:"appr"`
	Submitted *time.Time `yaml:"submitted"`
	Take      *string    `yaml:"take"`
}

// SeedRow is one asset row in a seed file.
type SeedRow struct {
	Project  string               `yaml:"project"`
	Group1   string               `yaml:"group_1"`
	Relation string               `yaml:"relation"`
	Phases   map[string]SeedPhase `yaml:"phases"`
}

// LoadSeedFile parses a YAML seed file into asset rows.
func LoadSeedFile(path string) ([]models.AssetStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("db: read seed file %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed unmarshals seed YAML into asset rows, rejecting rows with
// missing identity fields or unknown phase codes.
func ParseSeed(data []byte) ([]models.AssetStatus, error) {
	var rows []SeedRow
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("db: parse seed: %w", err)
	}

	assets := make([]models.AssetStatus, 0, len(rows))
	for i, r := range rows {
		if r.Project == "" || r.Group1 == "" || r.Relation == "" {
			return nil, fmt.Errorf("db: seed row %d: project, group_1, and relation are required", i)
		}
		asset := models.AssetStatus{
			Project:  r.Project,
			Group1:   r.Group1,
			Relation: r.Relation,
		}
		for code, cells := range r.Phases {
			phase, ok := pivot.ParsePhase(code)
			if !ok {
				return nil, fmt.Errorf("db: seed row %d: unknown phase %q", i, code)
			}
			asset.SetPhaseCells(phase, cells.Work, cells.Appr, cells.Submitted, cells.Take)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}
