package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// RegistryFile is one written VTU file.
type RegistryFile struct {
	Path string `json:"path"` // relative to the output directory
	Dim  int    `json:"dim"`
	Part int    `json:"part"` // PVD part index
}

// RegistryStep records everything written for one time step.
type RegistryStep struct {
	Step       int            `json:"step"`
	Time       float64        `json:"time"`
	ConstGroup int            `json:"const_group"` // 0 if no constant data
	Files      []RegistryFile `json:"files"`
}

// RegistryConst records one generation of constant-data files.
type RegistryConst struct {
	Group int            `json:"group"`
	Files []RegistryFile `json:"files"`
}

// Registry is the JSON sidecar of an export run. It lets a separate process
// collect a manifest from files written earlier.
type Registry struct {
	RunID    string          `json:"run_id"`
	Name     string          `json:"name"`
	Steps    []RegistryStep  `json:"steps"`
	Constant []RegistryConst `json:"constant,omitempty"`
}

func NewRegistry(name string) *Registry {
	return &Registry{RunID: uuid.NewString(), Name: name}
}

// RecordStep appends or replaces the entry for the step.
func (r *Registry) RecordStep(s RegistryStep) {
	for i := range r.Steps {
		if r.Steps[i].Step == s.Step {
			r.Steps[i] = s
			return
		}
	}
	r.Steps = append(r.Steps, s)
}

func (r *Registry) RecordConstant(c RegistryConst) {
	r.Constant = append(r.Constant, c)
}

// StepNumbers lists the recorded steps in write order.
func (r *Registry) StepNumbers() []int {
	out := make([]int, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Step
	}
	return out
}

// ConstantFiles returns the files of the given generation, or nil.
func (r *Registry) ConstantFiles(group int) []RegistryFile {
	for _, c := range r.Constant {
		if c.Group == group {
			return c.Files
		}
	}
	return nil
}

func registryPath(dir, name string) string {
	return filepath.Join(dir, name+"_registry.json")
}

// Save writes the registry sidecar atomically.
func (r *Registry) Save(dir string) error {
	return writeJSON(registryPath(dir, r.Name), r, 0o644)
}

// LoadRegistry reads the sidecar for a named run. ok is false when no
// registry exists.
func LoadRegistry(dir, name string) (*Registry, bool, error) {
	b, err := readFile(registryPath(dir, name))
	if err != nil {
		return nil, false, err
	}
	if b == nil {
		return nil, false, nil
	}
	var r Registry
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, false, fmt.Errorf("store: registry %q: %w", name, err)
	}
	return &r, true, nil
}
