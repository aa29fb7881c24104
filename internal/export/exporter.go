package export

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"stratum/internal/grid"
	"stratum/internal/state"
	"stratum/internal/store"
)

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger attaches a structured logger; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Exporter) { e.log = l }
}

// WithPadding sets the step-number width in file names. Default 6.
func WithPadding(w int) Option {
	return func(e *Exporter) { e.pad = w }
}

// Exporter writes time-step snapshots of state on a mixed-dimensional grid.
type Exporter struct {
	mdg    *grid.MixedDimGrid
	states *state.MixedDim
	name   string
	dir    string

	log *zap.Logger
	pad int

	constSel    []Selector
	constGroup  int
	constDigest []byte

	reg *store.Registry
}

// New binds an exporter to the grid, state, output name stem and directory.
// The directory is created if needed.
func New(mdg *grid.MixedDimGrid, states *state.MixedDim, name, dir string, opts ...Option) (*Exporter, error) {
	if mdg.NumSubdomains() == 0 {
		return nil, fmt.Errorf("export: empty mixed-dimensional grid")
	}
	if name == "" {
		return nil, fmt.Errorf("export: empty output name")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	e := &Exporter{
		mdg:    mdg,
		states: states,
		name:   name,
		dir:    dir,
		log:    zap.NewNop(),
		pad:    6,
		reg:    store.NewRegistry(name),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// SetConstantData registers slowly-changing fields. They are written to
// dedicated constant files, re-written only when the data content changes,
// and referenced from every step in the manifest.
func (e *Exporter) SetConstantData(sels ...Selector) {
	e.constSel = append([]Selector(nil), sels...)
	// Force a fresh constant write on the next step.
	e.constDigest = nil
}

// WriteTimeStep writes one VTU file per represented subdomain dimension with
// the selected data, refreshing constant files first when their content
// changed.
func (e *Exporter) WriteTimeStep(step int, sels ...Selector) error {
	if step < 0 {
		return fmt.Errorf("export: negative step %d", step)
	}
	perGrid, err := resolve(e.mdg, e.states, sels)
	if err != nil {
		return err
	}

	if len(e.constSel) > 0 {
		if err := e.refreshConstant(); err != nil {
			return err
		}
	}

	files, err := e.writeDims(perGrid, func(dim int) string {
		return fmt.Sprintf("%s_%d_%0*d.vtu", e.name, dim, e.pad, step)
	})
	if err != nil {
		return err
	}

	e.reg.RecordStep(store.RegistryStep{
		Step:       step,
		Time:       float64(step),
		ConstGroup: e.constGroup,
		Files:      files,
	})
	if err := e.reg.Save(e.dir); err != nil {
		return err
	}
	e.log.Info("wrote time step",
		zap.Int("step", step),
		zap.Int("files", len(files)),
		zap.Int("const_group", e.constGroup))
	return nil
}

// WritePVD writes the collection manifest for the steps written so far.
// steps restricts the manifest (nil means everything); times annotates steps
// with explicit simulation times, defaulting to the step number.
func (e *Exporter) WritePVD(steps []int, times map[int]float64) error {
	if err := WritePVDFromRegistry(e.reg, e.dir, steps, times); err != nil {
		return err
	}
	e.log.Info("wrote manifest", zap.String("file", e.name+".pvd"))
	return nil
}

// refreshConstant re-resolves the registered constant selectors and writes a
// new constant-file generation when the content digest changed.
func (e *Exporter) refreshConstant() error {
	perGrid, err := resolve(e.mdg, e.states, e.constSel)
	if err != nil {
		return err
	}
	digest := digestFields(perGrid)
	if e.constDigest != nil && string(digest) == string(e.constDigest) {
		return nil
	}

	group := e.constGroup + 1
	files, err := e.writeDims(perGrid, func(dim int) string {
		return fmt.Sprintf("%s_constant_%d_%0*d.vtu", e.name, dim, e.pad, group)
	})
	if err != nil {
		return err
	}
	e.constGroup = group
	e.constDigest = digest
	e.reg.RecordConstant(store.RegistryConst{Group: group, Files: files})
	e.log.Info("wrote constant data", zap.Int("group", group), zap.Int("files", len(files)))
	return nil
}

// writeDims renders and writes one VTU per represented dimension, in
// parallel, and returns the written files sorted by descending dimension.
func (e *Exporter) writeDims(perGrid map[string][]field, fileName func(dim int) string) ([]store.RegistryFile, error) {
	sds := e.mdg.Subdomains()
	sdIndex := make(map[string]int, len(sds))
	for i, g := range sds {
		sdIndex[g.ID] = i
	}

	dims := e.mdg.Dims()
	files := make([]store.RegistryFile, len(dims))

	var eg errgroup.Group
	for i, dim := range dims {
		i, dim := i, dim
		eg.Go(func() error {
			var pieces []piece
			for _, g := range e.mdg.SubdomainsOfDim(dim) {
				pieces = append(pieces, piece{g: g, sdIndex: sdIndex[g.ID], fields: perGrid[g.ID]})
			}
			b, err := buildVTU(pieces)
			if err != nil {
				return err
			}
			name := fileName(dim)
			if err := store.WriteFileAtomic(filepath.Join(e.dir, name), b, 0o644); err != nil {
				return err
			}
			files[i] = store.RegistryFile{Path: name, Dim: dim}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	for i := range files {
		files[i].Part = i
	}
	return files, nil
}

// digestFields hashes resolved fields content-sensitively: subdomain, field
// order, component counts and bit-exact values all contribute.
func digestFields(perGrid map[string][]field) []byte {
	h, _ := blake2b.New256(nil)
	ids := make([]string, 0, len(perGrid))
	for id := range perGrid {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var buf [8]byte
	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
		for _, f := range perGrid[id] {
			h.Write([]byte(f.Name))
			h.Write([]byte{0})
			binary.LittleEndian.PutUint64(buf[:], uint64(f.Components))
			h.Write(buf[:])
			for _, v := range f.Values {
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
				h.Write(buf[:])
			}
		}
	}
	return h.Sum(nil)
}
