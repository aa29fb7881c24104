package app

import (
	"fmt"

	"go.uber.org/zap"

	"stratum/internal/dofs"
	"stratum/internal/export"
	"stratum/internal/solve"
	"stratum/internal/store"
)

// RunExport loads every configured state file, writes one time step per
// file, then writes the manifest. Times come from the config first, the
// state files second, the step number last.
func (w *Wire) RunExport() error {
	e, err := w.BuildExporter()
	if err != nil {
		return err
	}
	ec := w.Cfg.Export

	sels := make([]export.Selector, len(ec.Keys))
	for i, k := range ec.Keys {
		sels[i] = export.Key(k)
	}

	times := make(map[int]float64, len(ec.Times))
	for k, v := range ec.Times {
		times[k] = v
	}

	for _, path := range ec.StateFiles {
		sf, err := store.ReadStateFile(path)
		if err != nil {
			return err
		}
		if err := w.applyState(sf); err != nil {
			return fmt.Errorf("app: state file %s: %w", path, err)
		}
		if err := e.WriteTimeStep(sf.Step, sels...); err != nil {
			return err
		}
		if _, ok := times[sf.Step]; !ok && sf.Time != 0 {
			times[sf.Step] = sf.Time
		}
	}
	return e.WritePVD(nil, times)
}

// applyState pours a state file into the per-grid states.
func (w *Wire) applyState(sf store.StateFile) error {
	for gid, fields := range sf.States {
		g, ok := w.Grid.Subdomain(gid)
		if !ok {
			return fmt.Errorf("unknown subdomain %q", gid)
		}
		s, err := w.States.For(gid, g.NumCells())
		if err != nil {
			return err
		}
		for key, f := range fields {
			comps := f.Components
			if comps == 0 {
				comps = 1
			}
			if err := s.SetVector(key, f.Values, comps); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunSolve runs the Newton demo over every subdomain and writes the result
// as a state file the export command can consume.
func (w *Wire) RunSolve(outPath string, step int) error {
	sc := w.Cfg.Solve
	if sc == nil {
		return fmt.Errorf("app: config has no solve section")
	}

	mgr, err := dofs.NewManager(w.Grid, []dofs.Decl{{Key: sc.Key}})
	if err != nil {
		return err
	}
	n := mgr.NumDofs()
	gap := make([]float64, n)
	forcing := make([]float64, n)
	for i := 0; i < n; i++ {
		gap[i] = sc.Gap
		forcing[i] = sc.Forcing
	}
	residual, err := solve.Complementarity(gap, forcing, sc.Stiffness)
	if err != nil {
		return err
	}

	res, err := solve.Newton(solve.Config{Tol: sc.Tol, MaxIter: sc.MaxIter}, w.Log, residual, make([]float64, n))
	if err != nil {
		return err
	}
	if !res.Converged {
		return fmt.Errorf("app: newton did not converge after %d iterations (residual %g)", res.Iterations, res.ResidualNorm)
	}
	w.Log.Info("newton converged",
		zap.Int("iterations", res.Iterations),
		zap.Float64("residual", res.ResidualNorm),
		zap.Int("dofs", n))

	if err := mgr.Distribute(res.U, w.States); err != nil {
		return err
	}

	sf := store.StateFile{
		Step:   step,
		Time:   float64(step),
		States: make(map[string]map[string]store.StateField),
	}
	for _, b := range mgr.Blocks() {
		s, _ := w.States.State(b.GridID)
		f, _ := s.Get(b.Key)
		if sf.States[b.GridID] == nil {
			sf.States[b.GridID] = make(map[string]store.StateField)
		}
		sf.States[b.GridID][b.Key] = store.StateField{Components: f.Components, Values: f.Values}
	}
	return store.WriteStateFile(outPath, sf)
}

// Collect writes a manifest from the run registry alone, without
// re-exporting.
func Collect(log *zap.Logger, dir, name string, steps []int, times map[int]float64) error {
	reg, ok, err := store.LoadRegistry(dir, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("app: no registry for run %q in %s", name, dir)
	}
	if err := export.WritePVDFromRegistry(reg, dir, steps, times); err != nil {
		return err
	}
	log.Info("collected manifest", zap.String("run", name), zap.Int("steps", len(reg.Steps)))
	return nil
}
