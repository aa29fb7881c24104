package grid

import "fmt"

// CellType is the VTK cell type code used when writing a grid.
type CellType uint8

const (
	Vertex     CellType = 1
	Line       CellType = 3
	Quad       CellType = 9
	Hexahedron CellType = 12
)

// Grid is a single mesh of fixed spatial dimension.
//
// Points holds xyz-interleaved coordinates (3 values per point); Cells holds
// point indices per cell in VTK ordering for the grid's CellType.
type Grid struct {
	ID   string
	Name string
	Dim  int

	Points   []float64
	Cells    [][]int
	CellType CellType

	// CartDims is the cell count per axis for tensor-product grids; nil for
	// point grids.
	CartDims []int
}

func (g *Grid) NumPoints() int { return len(g.Points) / 3 }

func (g *Grid) NumCells() int { return len(g.Cells) }

// PointsPerCell is the number of points each cell references.
func (g *Grid) PointsPerCell() int {
	switch g.CellType {
	case Vertex:
		return 1
	case Line:
		return 2
	case Quad:
		return 4
	case Hexahedron:
		return 8
	}
	return 0
}

func cellTypeForDim(dim int) (CellType, error) {
	switch dim {
	case 0:
		return Vertex, nil
	case 1:
		return Line, nil
	case 2:
		return Quad, nil
	case 3:
		return Hexahedron, nil
	}
	return 0, fmt.Errorf("grid: unsupported dimension %d", dim)
}
