package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HostID is the subdomain ID of the highest-dimensional grid built from a
// run configuration.
const HostID = "host"

// Config is the YAML run file driving the CLI.
type Config struct {
	Grid   GridConfig   `yaml:"grid"`
	Export ExportConfig `yaml:"export"`
	Solve  *SolveConfig `yaml:"solve,omitempty"`
}

// GridConfig describes the host grid and embedded fracture subdomains.
type GridConfig struct {
	Name      string           `yaml:"name"`
	Dims      []int            `yaml:"dims"`
	PhysDims  []float64        `yaml:"phys_dims,omitempty"`
	Fractures []FractureConfig `yaml:"fractures,omitempty"`
}

// FractureConfig is a 1d line subdomain embedded in the host, coupled to it
// through an interface with one coupling cell per fracture cell.
type FractureConfig struct {
	ID    string     `yaml:"id,omitempty"`
	From  [3]float64 `yaml:"from"`
	To    [3]float64 `yaml:"to"`
	Cells int        `yaml:"cells"`
}

// ExportConfig drives the export and collect commands.
type ExportConfig struct {
	Name         string          `yaml:"name"`
	Dir          string          `yaml:"dir"`
	Keys         []string        `yaml:"keys"`
	ConstantKeys []string        `yaml:"constant_keys,omitempty"`
	StateFiles   []string        `yaml:"state_files,omitempty"`
	Times        map[int]float64 `yaml:"times,omitempty"`
}

// SolveConfig drives the Newton demo: the penalized contact equation
// u + stiffness * max(u - gap, 0) = forcing on every cell.
type SolveConfig struct {
	Key       string  `yaml:"key"`
	Tol       float64 `yaml:"tol"`
	MaxIter   int     `yaml:"max_iter"`
	Gap       float64 `yaml:"gap"`
	Stiffness float64 `yaml:"stiffness"`
	Forcing   float64 `yaml:"forcing"`
}

// LoadConfig reads and validates a run file.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("app: config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("app: config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	g := c.Grid
	if len(g.Dims) < 1 || len(g.Dims) > 3 {
		return fmt.Errorf("grid.dims needs 1 to 3 entries, got %d", len(g.Dims))
	}
	if g.PhysDims != nil && len(g.PhysDims) != len(g.Dims) {
		return fmt.Errorf("grid.phys_dims has %d entries for %d axes", len(g.PhysDims), len(g.Dims))
	}
	for i, f := range g.Fractures {
		if f.Cells < 1 {
			return fmt.Errorf("grid.fractures[%d].cells must be positive", i)
		}
	}
	if c.Solve != nil {
		s := c.Solve
		if s.Key == "" {
			return fmt.Errorf("solve.key is required")
		}
		if s.Tol <= 0 {
			return fmt.Errorf("solve.tol must be positive")
		}
		if s.MaxIter < 1 {
			return fmt.Errorf("solve.max_iter must be positive")
		}
	}
	return nil
}

// validateExport is deferred to export time: info and solve runs do not need
// an export section.
func (c *Config) validateExport() error {
	e := c.Export
	if e.Name == "" {
		return fmt.Errorf("export.name is required")
	}
	if e.Dir == "" {
		return fmt.Errorf("export.dir is required")
	}
	if len(e.Keys) == 0 {
		return fmt.Errorf("export.keys is empty")
	}
	if len(e.StateFiles) == 0 {
		return fmt.Errorf("export.state_files is empty")
	}
	return nil
}
