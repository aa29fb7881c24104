package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratum/internal/app"
	"stratum/internal/store"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const gridSection = `
grid:
  name: bench
  dims: [2, 2]
  phys_dims: [1.0, 1.0]
  fractures:
    - id: frac
      from: [0.0, 0.5, 0.0]
      to: [1.0, 0.5, 0.0]
      cells: 2
`

func TestLoadConfig_Valid(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, gridSection+`
export:
  name: sim
  dir: out
  keys: [pressure]
solve:
  key: u
  tol: 1.0e-10
  max_iter: 30
  gap: 1.0
  stiffness: 10.0
  forcing: 3.0
`)
	cfg, err := app.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, cfg.Grid.Dims)
	assert.Len(t, cfg.Grid.Fractures, 1)
	require.NotNil(t, cfg.Solve)
	assert.Equal(t, 30, cfg.Solve.MaxIter)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no dims", "grid:\n  name: x\n"},
		{"too many axes", "grid:\n  dims: [1, 2, 3, 4]\n"},
		{"phys mismatch", "grid:\n  dims: [2, 2]\n  phys_dims: [1.0]\n"},
		{"fracture cells", "grid:\n  dims: [2, 2]\n  fractures:\n    - from: [0, 0.5, 0]\n      to: [1, 0.5, 0]\n      cells: 0\n"},
		{"solve tol", gridSection + "solve:\n  key: u\n  tol: 0\n  max_iter: 5\n"},
		{"solve key", gridSection + "solve:\n  tol: 1.0e-8\n  max_iter: 5\n"},
		{"not yaml", "{{{"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tc.body)
			_, err := app.LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestBuildGrid(t *testing.T) {
	mdg, err := app.BuildGrid(app.GridConfig{
		Name: "bench",
		Dims: []int{3, 3},
		Fractures: []app.FractureConfig{
			{From: [3]float64{0, 0.5, 0}, To: [3]float64{1, 0.5, 0}, Cells: 3},
		},
	})
	require.NoError(t, err)

	host, ok := mdg.Subdomain(app.HostID)
	require.True(t, ok)
	assert.Equal(t, 2, host.Dim)
	assert.Equal(t, 9, host.NumCells())

	frac, ok := mdg.Subdomain("frac-0")
	require.True(t, ok)
	assert.Equal(t, 1, frac.Dim)
	assert.Len(t, mdg.Interfaces(), 1)
}

func TestRunSolveThenExport(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	statePath := filepath.Join(dir, "state_1.json")

	cfgPath := writeConfig(t, dir, gridSection+`
export:
  name: sim
  dir: `+out+`
  keys: [u]
  state_files: [`+statePath+`]
  times: {1: 0.5}
solve:
  key: u
  tol: 1.0e-10
  max_iter: 30
  gap: 1.0
  stiffness: 10.0
  forcing: 3.0
`)

	w, err := app.NewWire(cfgPath, false)
	require.NoError(t, err)
	require.NoError(t, w.RunSolve(statePath, 1))

	// The solve covers host and fracture cells alike.
	sf, err := store.ReadStateFile(statePath)
	require.NoError(t, err)
	require.Contains(t, sf.States, app.HostID)
	require.Contains(t, sf.States, "frac")
	// Forcing 3 above gap 1 with stiffness 10 activates the contact branch:
	// u = (3 + 10) / 11 on every cell.
	assert.InDelta(t, 13.0/11.0, sf.States[app.HostID]["u"].Values[0], 1e-9)

	// A fresh wire exports what the solve wrote.
	w2, err := app.NewWire(cfgPath, false)
	require.NoError(t, err)
	require.NoError(t, w2.RunExport())

	for _, name := range []string{"sim_2_000001.vtu", "sim_1_000001.vtu", "sim.pvd"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}

	// Collect rebuilds the manifest from the registry alone.
	log, err := app.NewLogger(false)
	require.NoError(t, err)
	require.NoError(t, app.Collect(log, out, "sim", nil, map[int]float64{1: 0.75}))
}

func TestRunExport_MissingSection(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, gridSection)

	w, err := app.NewWire(cfgPath, false)
	require.NoError(t, err)
	assert.Error(t, w.RunExport())
	assert.Error(t, w.RunSolve(filepath.Join(dir, "s.json"), 1), "no solve section")
}

func TestCollect_NoRegistry(t *testing.T) {
	log, err := app.NewLogger(false)
	require.NoError(t, err)
	assert.Error(t, app.Collect(log, t.TempDir(), "nope", nil, nil))
}
