package rig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"luxdeck/internal/model"
)

// PlanSource serves the externally authored fixture plan from a YAML file.
// The file is authored out-of-band; the rig does not validate fixture
// addressing beyond parseability.
type PlanSource struct {
	path string

	mu   sync.RWMutex
	plan *model.FixturePlan
}

// NewPlanSource loads the plan at path. An empty path means no plan is
// configured; a missing file is treated the same way.
func NewPlanSource(path string) (*PlanSource, error) {
	src := &PlanSource{path: path}
	if err := src.Reload(); err != nil {
		return nil, err
	}

	return src, nil
}

// Plan returns the current plan, or nil when none is configured.
func (p *PlanSource) Plan() *model.FixturePlan {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.plan
}

// Reload re-reads the plan file, keeping the old plan on parse errors so an
// operator saving a broken file mid-show does not blank the fixture view.
func (p *PlanSource) Reload() error {
	if p.path == "" {
		return nil
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("read fixture plan %s: %w", p.path, err)
	}

	var plan model.FixturePlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return fmt.Errorf("parse fixture plan %s: %w", p.path, err)
	}

	p.mu.Lock()
	p.plan = &plan
	p.mu.Unlock()

	return nil
}
