package grid

import "fmt"

// NewTensorGrid builds a grid from the tensor product of coordinate lines.
// A nil y or z lowers the dimension: (x) gives a 1d line grid, (x, y) a 2d
// quad grid and (x, y, z) a 3d hexahedral grid. Each line must be strictly
// increasing with at least two entries.
func NewTensorGrid(x, y, z []float64, name string) (*Grid, error) {
	lines := [][]float64{x}
	if y != nil {
		lines = append(lines, y)
	}
	if z != nil {
		if y == nil {
			return nil, fmt.Errorf("grid: z coordinates given without y")
		}
		lines = append(lines, z)
	}
	for ax, ln := range lines {
		if len(ln) < 2 {
			return nil, fmt.Errorf("grid: axis %d needs at least two coordinates, got %d", ax, len(ln))
		}
		for i := 1; i < len(ln); i++ {
			if ln[i] <= ln[i-1] {
				return nil, fmt.Errorf("grid: axis %d coordinates must be strictly increasing", ax)
			}
		}
	}

	dim := len(lines)
	ct, err := cellTypeForDim(dim)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "TensorGrid"
	}

	// Pad missing axes with a single zero coordinate so points and cells can
	// be generated by one triple loop.
	full := make([][]float64, 3)
	for ax := 0; ax < 3; ax++ {
		if ax < dim {
			full[ax] = lines[ax]
		} else {
			full[ax] = []float64{0}
		}
	}
	nx, ny, nz := len(full[0]), len(full[1]), len(full[2])

	points := make([]float64, 0, 3*nx*ny*nz)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				points = append(points, full[0][i], full[1][j], full[2][k])
			}
		}
	}

	// Point index for lattice position (i, j, k).
	idx := func(i, j, k int) int { return k*nx*ny + j*nx + i }

	cartDims := make([]int, dim)
	for ax := 0; ax < dim; ax++ {
		cartDims[ax] = len(lines[ax]) - 1
	}

	var cells [][]int
	switch dim {
	case 1:
		for i := 0; i < nx-1; i++ {
			cells = append(cells, []int{i, i + 1})
		}
	case 2:
		for j := 0; j < ny-1; j++ {
			for i := 0; i < nx-1; i++ {
				cells = append(cells, []int{
					idx(i, j, 0), idx(i+1, j, 0), idx(i+1, j+1, 0), idx(i, j+1, 0),
				})
			}
		}
	case 3:
		for k := 0; k < nz-1; k++ {
			for j := 0; j < ny-1; j++ {
				for i := 0; i < nx-1; i++ {
					cells = append(cells, []int{
						idx(i, j, k), idx(i+1, j, k), idx(i+1, j+1, k), idx(i, j+1, k),
						idx(i, j, k+1), idx(i+1, j, k+1), idx(i+1, j+1, k+1), idx(i, j+1, k+1),
					})
				}
			}
		}
	}

	return &Grid{
		Name:     name,
		Dim:      dim,
		Points:   points,
		Cells:    cells,
		CellType: ct,
		CartDims: cartDims,
	}, nil
}

// NewCartGrid builds a uniform tensor grid with dims cells per axis spanning
// physDims in physical size. physDims may be nil, in which case each axis
// spans the unit interval.
func NewCartGrid(dims []int, physDims []float64, name string) (*Grid, error) {
	if len(dims) < 1 || len(dims) > 3 {
		return nil, fmt.Errorf("grid: cart grid needs 1 to 3 axes, got %d", len(dims))
	}
	if physDims == nil {
		physDims = make([]float64, len(dims))
		for i := range physDims {
			physDims[i] = 1
		}
	}
	if len(physDims) != len(dims) {
		return nil, fmt.Errorf("grid: %d physical dimensions for %d axes", len(physDims), len(dims))
	}

	lines := make([][]float64, len(dims))
	for ax, n := range dims {
		if n < 1 {
			return nil, fmt.Errorf("grid: axis %d needs at least one cell", ax)
		}
		if physDims[ax] <= 0 {
			return nil, fmt.Errorf("grid: axis %d physical size must be positive", ax)
		}
		ln := make([]float64, n+1)
		h := physDims[ax] / float64(n)
		for i := range ln {
			ln[i] = float64(i) * h
		}
		lines[ax] = ln
	}
	if name == "" {
		name = "CartGrid"
	}

	var y, z []float64
	if len(lines) > 1 {
		y = lines[1]
	}
	if len(lines) > 2 {
		z = lines[2]
	}
	return NewTensorGrid(lines[0], y, z, name)
}

// NewLineGrid builds a 1d grid of n cells along the straight segment from p0
// to p1. Used for fracture subdomains embedded in a higher-dimensional host.
func NewLineGrid(p0, p1 [3]float64, n int, name string) (*Grid, error) {
	if n < 1 {
		return nil, fmt.Errorf("grid: line grid needs at least one cell")
	}
	if p0 == p1 {
		return nil, fmt.Errorf("grid: line grid endpoints coincide")
	}
	if name == "" {
		name = "LineGrid"
	}

	points := make([]float64, 0, 3*(n+1))
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		for ax := 0; ax < 3; ax++ {
			points = append(points, p0[ax]+t*(p1[ax]-p0[ax]))
		}
	}
	cells := make([][]int, n)
	for i := 0; i < n; i++ {
		cells[i] = []int{i, i + 1}
	}
	return &Grid{
		Name:     name,
		Dim:      1,
		Points:   points,
		Cells:    cells,
		CellType: Line,
		CartDims: []int{n},
	}, nil
}

// NewPointGrid builds a 0d grid with a single cell at p, representing e.g. a
// fracture intersection.
func NewPointGrid(p [3]float64, name string) *Grid {
	if name == "" {
		name = "PointGrid"
	}
	return &Grid{
		Name:     name,
		Dim:      0,
		Points:   []float64{p[0], p[1], p[2]},
		Cells:    [][]int{{0}},
		CellType: Vertex,
	}
}
