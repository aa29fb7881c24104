package app

import (
	"fmt"

	"go.uber.org/zap"

	"stratum/internal/export"
	"stratum/internal/grid"
	"stratum/internal/state"
)

// Wire bundles the dependency graph built from a run configuration.
type Wire struct {
	Log    *zap.Logger
	Cfg    *Config
	Grid   *grid.MixedDimGrid
	States *state.MixedDim
}

// NewWire loads the config at path and constructs the grid and empty state.
func NewWire(path string, verbose bool) (*Wire, error) {
	log, err := NewLogger(verbose)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	mdg, err := BuildGrid(cfg.Grid)
	if err != nil {
		return nil, err
	}
	return &Wire{
		Log:    log,
		Cfg:    cfg,
		Grid:   mdg,
		States: state.NewMixedDim(),
	}, nil
}

// NewLogger builds the CLI logger: production config, debug level with
// verbose.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// BuildGrid constructs the mixed-dimensional grid: the host from the
// cartesian description plus one line subdomain and interface per fracture.
func BuildGrid(gc GridConfig) (*grid.MixedDimGrid, error) {
	mdg := grid.NewMixedDim()

	host, err := grid.NewCartGrid(gc.Dims, gc.PhysDims, gc.Name)
	if err != nil {
		return nil, err
	}
	host.ID = HostID
	if err := mdg.AddSubdomain(host); err != nil {
		return nil, err
	}

	for i, fc := range gc.Fractures {
		id := fc.ID
		if id == "" {
			id = fmt.Sprintf("frac-%d", i)
		}
		f, err := grid.NewLineGrid(fc.From, fc.To, fc.Cells, id)
		if err != nil {
			return nil, fmt.Errorf("app: fracture %q: %w", id, err)
		}
		f.ID = id
		if err := mdg.AddSubdomain(f); err != nil {
			return nil, err
		}
		if err := mdg.AddInterface(grid.Interface{Higher: HostID, Lower: id, NumCells: fc.Cells}); err != nil {
			return nil, err
		}
	}
	return mdg, nil
}

// BuildExporter constructs the exporter from the export section, registering
// constant keys.
func (w *Wire) BuildExporter() (*export.Exporter, error) {
	if err := w.Cfg.validateExport(); err != nil {
		return nil, err
	}
	ec := w.Cfg.Export
	e, err := export.New(w.Grid, w.States, ec.Name, ec.Dir, export.WithLogger(w.Log))
	if err != nil {
		return nil, err
	}
	if len(ec.ConstantKeys) > 0 {
		sels := make([]export.Selector, len(ec.ConstantKeys))
		for i, k := range ec.ConstantKeys {
			sels[i] = export.Key(k)
		}
		e.SetConstantData(sels...)
	}
	return e, nil
}
