package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/c2d/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// PlanFileName is the default deployment plan file
const PlanFileName = "c2d.plan.yaml"

// LoadPlan reads the deployment plan at path, relative to the project root.
// Without a plan file the defaults for contract are used. A non-empty contract
// overrides the plan's contract name.
func LoadPlan(projectRoot, path, contract string) (*config.Plan, error) {
	if path == "" {
		path = PlanFileName
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectRoot, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.DefaultPlan(contract), nil
		}
		return nil, fmt.Errorf("failed to read plan %s: %w", path, err)
	}

	var plan config.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}
	if contract != "" {
		plan.Contract = contract
	}

	plan.ApplyDefaults()
	plan.Metadata.Path = path
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}
