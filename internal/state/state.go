package state

import (
	"fmt"
	"sort"
)

// Field is one named quantity: Components values per cell, flattened
// cell-major ([u0, v0, u1, v1, ...] for two components).
type Field struct {
	Values     []float64
	Components int
}

// State maps variable keys to cell data for a single grid.
type State struct {
	numCells int
	fields   map[string]Field
}

func New(numCells int) *State {
	return &State{numCells: numCells, fields: make(map[string]Field)}
}

func (s *State) NumCells() int { return s.numCells }

// Set stores scalar cell data under key.
func (s *State) Set(key string, vals []float64) error {
	return s.SetVector(key, vals, 1)
}

// SetVector stores cell data with the given component count. The value slice
// is copied.
func (s *State) SetVector(key string, vals []float64, components int) error {
	if key == "" {
		return fmt.Errorf("state: empty key")
	}
	if components < 1 {
		return fmt.Errorf("state: %q: component count %d", key, components)
	}
	if len(vals) != s.numCells*components {
		return fmt.Errorf("state: %q: got %d values, want %d (%d cells x %d components)",
			key, len(vals), s.numCells*components, s.numCells, components)
	}
	s.fields[key] = Field{Values: append([]float64(nil), vals...), Components: components}
	return nil
}

func (s *State) Get(key string) (Field, bool) {
	f, ok := s.fields[key]
	return f, ok
}

// Keys lists the stored keys, sorted.
func (s *State) Keys() []string {
	out := make([]string, 0, len(s.fields))
	for k := range s.fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MixedDim addresses per-grid states by subdomain ID.
type MixedDim struct {
	byGrid map[string]*State
}

func NewMixedDim() *MixedDim {
	return &MixedDim{byGrid: make(map[string]*State)}
}

// For returns the state for the subdomain, creating it with numCells cells on
// first use. Creating with a different cell count than before is an error.
func (m *MixedDim) For(id string, numCells int) (*State, error) {
	if s, ok := m.byGrid[id]; ok {
		if s.numCells != numCells {
			return nil, fmt.Errorf("state: subdomain %q has %d cells, not %d", id, s.numCells, numCells)
		}
		return s, nil
	}
	s := New(numCells)
	m.byGrid[id] = s
	return s, nil
}

func (m *MixedDim) State(id string) (*State, bool) {
	s, ok := m.byGrid[id]
	return s, ok
}

// GridIDs lists subdomains that carry state, sorted.
func (m *MixedDim) GridIDs() []string {
	out := make([]string, 0, len(m.byGrid))
	for id := range m.byGrid {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
