package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// StateField is one field of a state file: Components values per cell,
// flattened cell-major. A zero Components means scalar.
type StateField struct {
	Components int       `json:"components,omitempty"`
	Values     []float64 `json:"values"`
}

// StateFile is the interchange format between a solver run and the exporter:
// one time step of per-subdomain cell data.
type StateFile struct {
	Step   int                              `json:"step"`
	Time   float64                          `json:"time"`
	States map[string]map[string]StateField `json:"states"`
}

// ReadStateFile loads and validates a state file.
func ReadStateFile(path string) (StateFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return StateFile{}, err
	}
	var sf StateFile
	if err := json.Unmarshal(b, &sf); err != nil {
		return StateFile{}, fmt.Errorf("store: state file %s: %w", path, err)
	}
	if len(sf.States) == 0 {
		return StateFile{}, fmt.Errorf("store: state file %s has no states", path)
	}
	for gid, fields := range sf.States {
		for key, f := range fields {
			if len(f.Values) == 0 {
				return StateFile{}, fmt.Errorf("store: state file %s: %s/%s is empty", path, gid, key)
			}
			if f.Components < 0 {
				return StateFile{}, fmt.Errorf("store: state file %s: %s/%s component count %d", path, gid, key, f.Components)
			}
		}
	}
	return sf, nil
}

// WriteStateFile writes a state file atomically.
func WriteStateFile(path string, sf StateFile) error {
	return writeJSON(path, sf, 0o644)
}
