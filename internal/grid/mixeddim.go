package grid

import (
	"fmt"
	"sort"
)

// Interface couples a lower-dimensional subdomain to a higher-dimensional
// neighbour. NumCells is the number of coupling cells on the interface.
type Interface struct {
	Higher   string
	Lower    string
	NumCells int
}

// MixedDimGrid collects subdomain grids of different dimensions plus the
// interfaces coupling them. Subdomain IDs are unique; an empty ID on add is
// replaced with a generated one.
type MixedDimGrid struct {
	subdomains []*Grid
	byID       map[string]*Grid
	interfaces []Interface
}

func NewMixedDim() *MixedDimGrid {
	return &MixedDimGrid{byID: make(map[string]*Grid)}
}

// AddSubdomain registers g. An empty g.ID is assigned "sd-<n>".
func (m *MixedDimGrid) AddSubdomain(g *Grid) error {
	if g.ID == "" {
		g.ID = fmt.Sprintf("sd-%d", len(m.subdomains))
	}
	if _, exists := m.byID[g.ID]; exists {
		return fmt.Errorf("grid: duplicate subdomain id %q", g.ID)
	}
	m.subdomains = append(m.subdomains, g)
	m.byID[g.ID] = g
	return nil
}

// AddInterface registers a coupling. Both subdomains must already exist and
// the lower side must have strictly smaller dimension.
func (m *MixedDimGrid) AddInterface(ifc Interface) error {
	hi, ok := m.byID[ifc.Higher]
	if !ok {
		return fmt.Errorf("grid: interface references unknown subdomain %q", ifc.Higher)
	}
	lo, ok := m.byID[ifc.Lower]
	if !ok {
		return fmt.Errorf("grid: interface references unknown subdomain %q", ifc.Lower)
	}
	if lo.Dim >= hi.Dim {
		return fmt.Errorf("grid: interface %q-%q does not couple across dimensions", ifc.Higher, ifc.Lower)
	}
	if ifc.NumCells < 1 {
		return fmt.Errorf("grid: interface %q-%q needs at least one cell", ifc.Higher, ifc.Lower)
	}
	m.interfaces = append(m.interfaces, ifc)
	return nil
}

// Subdomains returns all subdomains ordered by descending dimension, with
// insertion order preserved within a dimension.
func (m *MixedDimGrid) Subdomains() []*Grid {
	out := make([]*Grid, len(m.subdomains))
	copy(out, m.subdomains)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Dim > out[j].Dim })
	return out
}

// SubdomainsOfDim returns the subdomains of dimension d in insertion order.
func (m *MixedDimGrid) SubdomainsOfDim(d int) []*Grid {
	var out []*Grid
	for _, g := range m.subdomains {
		if g.Dim == d {
			out = append(out, g)
		}
	}
	return out
}

func (m *MixedDimGrid) Subdomain(id string) (*Grid, bool) {
	g, ok := m.byID[id]
	return g, ok
}

func (m *MixedDimGrid) Interfaces() []Interface {
	out := make([]Interface, len(m.interfaces))
	copy(out, m.interfaces)
	return out
}

func (m *MixedDimGrid) NumSubdomains() int { return len(m.subdomains) }

// MaxDim is the highest subdomain dimension, or -1 for an empty grid.
func (m *MixedDimGrid) MaxDim() int {
	max := -1
	for _, g := range m.subdomains {
		if g.Dim > max {
			max = g.Dim
		}
	}
	return max
}

// Dims lists the dimensions represented, descending.
func (m *MixedDimGrid) Dims() []int {
	seen := make(map[int]bool)
	var dims []int
	for _, g := range m.subdomains {
		if !seen[g.Dim] {
			seen[g.Dim] = true
			dims = append(dims, g.Dim)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(dims)))
	return dims
}

// NumCells is the total cell count over all subdomains.
func (m *MixedDimGrid) NumCells() int {
	n := 0
	for _, g := range m.subdomains {
		n += g.NumCells()
	}
	return n
}
