package dofs

import (
	"fmt"

	"stratum/internal/ad"
	"stratum/internal/grid"
	"stratum/internal/state"
)

// Decl declares a cell-centered variable. Grids restricts the declaration to
// a subdomain subset; empty means every subdomain.
type Decl struct {
	Key        string
	Components int
	Grids      []string
}

type block struct {
	gridID string
	key    string
	comps  int
	offset int
	count  int
}

// Manager owns the global ordering of unknowns: one contiguous index range
// per (subdomain, variable) pair, subdomains in descending-dimension order,
// declarations in the order given.
type Manager struct {
	mdg    *grid.MixedDimGrid
	blocks []block
	index  map[[2]string]int
	total  int
}

func NewManager(mdg *grid.MixedDimGrid, decls []Decl) (*Manager, error) {
	m := &Manager{mdg: mdg, index: make(map[[2]string]int)}
	for _, g := range mdg.Subdomains() {
		for _, d := range decls {
			if d.Key == "" {
				return nil, fmt.Errorf("dofs: declaration with empty key")
			}
			comps := d.Components
			if comps == 0 {
				comps = 1
			}
			if comps < 0 {
				return nil, fmt.Errorf("dofs: %q: component count %d", d.Key, comps)
			}
			if !declApplies(d, g.ID) {
				continue
			}
			k := [2]string{g.ID, d.Key}
			if _, dup := m.index[k]; dup {
				return nil, fmt.Errorf("dofs: variable %q declared twice on subdomain %q", d.Key, g.ID)
			}
			b := block{
				gridID: g.ID,
				key:    d.Key,
				comps:  comps,
				offset: m.total,
				count:  g.NumCells() * comps,
			}
			m.index[k] = len(m.blocks)
			m.blocks = append(m.blocks, b)
			m.total += b.count
		}
	}
	for _, d := range decls {
		for _, id := range d.Grids {
			if _, ok := mdg.Subdomain(id); !ok {
				return nil, fmt.Errorf("dofs: declaration %q references unknown subdomain %q", d.Key, id)
			}
		}
	}
	return m, nil
}

func declApplies(d Decl, gridID string) bool {
	if len(d.Grids) == 0 {
		return true
	}
	for _, id := range d.Grids {
		if id == gridID {
			return true
		}
	}
	return false
}

// NumDofs is the total number of global unknowns.
func (m *Manager) NumDofs() int { return m.total }

// GridVarIndex returns the global offset and length of the block for the
// variable on the subdomain.
func (m *Manager) GridVarIndex(gridID, key string) (offset, count int, ok bool) {
	i, ok := m.index[[2]string{gridID, key}]
	if !ok {
		return 0, 0, false
	}
	return m.blocks[i].offset, m.blocks[i].count, true
}

// Assemble gathers per-grid state into a global vector in block order.
// Missing state is an error.
func (m *Manager) Assemble(states *state.MixedDim) ([]float64, error) {
	out := make([]float64, m.total)
	for _, b := range m.blocks {
		s, ok := states.State(b.gridID)
		if !ok {
			return nil, fmt.Errorf("dofs: no state for subdomain %q", b.gridID)
		}
		f, ok := s.Get(b.key)
		if !ok {
			return nil, fmt.Errorf("dofs: subdomain %q has no field %q", b.gridID, b.key)
		}
		if len(f.Values) != b.count {
			return nil, fmt.Errorf("dofs: field %q on %q has %d values, want %d", b.key, b.gridID, len(f.Values), b.count)
		}
		copy(out[b.offset:b.offset+b.count], f.Values)
	}
	return out, nil
}

// Distribute scatters a global vector into per-grid state, creating states as
// needed.
func (m *Manager) Distribute(u []float64, states *state.MixedDim) error {
	if len(u) != m.total {
		return fmt.Errorf("dofs: global vector has %d entries, want %d", len(u), m.total)
	}
	for _, b := range m.blocks {
		g, _ := m.mdg.Subdomain(b.gridID)
		s, err := states.For(b.gridID, g.NumCells())
		if err != nil {
			return err
		}
		if err := s.SetVector(b.key, u[b.offset:b.offset+b.count], b.comps); err != nil {
			return err
		}
	}
	return nil
}

// InitVariables seeds one AD variable per block from the current state, in
// block order. The returned Arrays share the combined Jacobian columns, so
// they can be mixed freely in expressions.
func (m *Manager) InitVariables(states *state.MixedDim) ([]*ad.Array, error) {
	vals := make([][]float64, len(m.blocks))
	for i, b := range m.blocks {
		s, ok := states.State(b.gridID)
		if !ok {
			return nil, fmt.Errorf("dofs: no state for subdomain %q", b.gridID)
		}
		f, ok := s.Get(b.key)
		if !ok {
			return nil, fmt.Errorf("dofs: subdomain %q has no field %q", b.gridID, b.key)
		}
		vals[i] = f.Values
	}
	return ad.NewVariables(vals...), nil
}

// Blocks lists the (subdomain, variable) pairs in global order.
func (m *Manager) Blocks() []struct{ GridID, Key string } {
	out := make([]struct{ GridID, Key string }, len(m.blocks))
	for i, b := range m.blocks {
		out[i] = struct{ GridID, Key string }{b.gridID, b.key}
	}
	return out
}
