package export

import (
	"fmt"

	"stratum/internal/grid"
	"stratum/internal/state"
)

// Selector picks cell data for export. The three forms follow the exporter
// calling convention: a bare key, a (grid subset, key) pair, and a
// (grid, key, explicit array) triple.
type Selector struct {
	key      string
	grids    []string
	explicit bool
	values   []float64
}

// Key selects the field on every subdomain whose state carries it.
func Key(key string) Selector {
	return Selector{key: key}
}

// GridsKey selects the field on exactly the listed subdomains.
func GridsKey(ids []string, key string) Selector {
	return Selector{key: key, grids: append([]string(nil), ids...)}
}

// Values attaches an explicit array to one subdomain under the given key,
// bypassing stored state. The component count is inferred from the array
// length and the subdomain's cell count.
func Values(gridID, key string, vals []float64) Selector {
	return Selector{
		key:      key,
		grids:    []string{gridID},
		explicit: true,
		values:   append([]float64(nil), vals...),
	}
}

// field is resolved cell data ready for writing.
type field struct {
	Name       string
	Components int
	Values     []float64
}

// resolve expands selectors against the grid and state into per-subdomain
// fields, in selector order.
func resolve(mdg *grid.MixedDimGrid, states *state.MixedDim, sels []Selector) (map[string][]field, error) {
	out := make(map[string][]field)
	for _, sel := range sels {
		if sel.key == "" {
			return nil, fmt.Errorf("export: selector with empty key")
		}
		if sel.explicit {
			id := sel.grids[0]
			g, ok := mdg.Subdomain(id)
			if !ok {
				return nil, fmt.Errorf("export: selector %q references unknown subdomain %q", sel.key, id)
			}
			n := g.NumCells()
			if len(sel.values) == 0 || len(sel.values)%n != 0 {
				return nil, fmt.Errorf("export: explicit data for %q on %q has %d values, not a multiple of %d cells",
					sel.key, id, len(sel.values), n)
			}
			out[id] = append(out[id], field{
				Name:       sel.key,
				Components: len(sel.values) / n,
				Values:     sel.values,
			})
			continue
		}

		ids := sel.grids
		restricted := ids != nil
		if !restricted {
			for _, g := range mdg.Subdomains() {
				ids = append(ids, g.ID)
			}
		}
		matched := false
		for _, id := range ids {
			if _, ok := mdg.Subdomain(id); !ok {
				return nil, fmt.Errorf("export: selector %q references unknown subdomain %q", sel.key, id)
			}
			s, ok := states.State(id)
			if !ok {
				if restricted {
					return nil, fmt.Errorf("export: subdomain %q carries no state for key %q", id, sel.key)
				}
				continue
			}
			f, ok := s.Get(sel.key)
			if !ok {
				if restricted {
					return nil, fmt.Errorf("export: subdomain %q carries no field %q", id, sel.key)
				}
				continue
			}
			matched = true
			out[id] = append(out[id], field{Name: sel.key, Components: f.Components, Values: f.Values})
		}
		if !matched && !restricted {
			return nil, fmt.Errorf("export: no subdomain carries field %q", sel.key)
		}
	}
	return out, nil
}
