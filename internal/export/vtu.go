package export

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"stratum/internal/grid"
)

// piece is one subdomain prepared for writing: geometry plus resolved cell
// data. sdIndex is the subdomain's position in the mixed-dimensional grid and
// ends up in the "subdomain_id" metadata array.
type piece struct {
	g       *grid.Grid
	sdIndex int
	fields  []field
}

type xmlVTKFile struct {
	XMLName   xml.Name `xml:"VTKFile"`
	Type      string   `xml:"type,attr"`
	Version   string   `xml:"version,attr"`
	ByteOrder string   `xml:"byte_order,attr"`
	Grid      xmlUGrid `xml:"UnstructuredGrid"`
}

type xmlUGrid struct {
	Pieces []xmlPiece `xml:"Piece"`
}

type xmlPiece struct {
	NumberOfPoints int          `xml:"NumberOfPoints,attr"`
	NumberOfCells  int          `xml:"NumberOfCells,attr"`
	Points         xmlArrayList `xml:"Points"`
	Cells          xmlArrayList `xml:"Cells"`
	CellData       xmlArrayList `xml:"CellData"`
}

type xmlArrayList struct {
	Arrays []xmlDataArray `xml:"DataArray"`
}

type xmlDataArray struct {
	Type       string `xml:"type,attr"`
	Name       string `xml:"Name,attr,omitempty"`
	Components int    `xml:"NumberOfComponents,attr,omitempty"`
	Format     string `xml:"format,attr"`
	Data       string `xml:",chardata"`
}

// buildVTU renders pieces as a serial VTK unstructured-grid file, one Piece
// per subdomain, ascii data arrays.
func buildVTU(pieces []piece) ([]byte, error) {
	doc := xmlVTKFile{
		Type:      "UnstructuredGrid",
		Version:   "0.1",
		ByteOrder: "LittleEndian",
	}
	for _, p := range pieces {
		xp, err := buildPiece(p)
		if err != nil {
			return nil, err
		}
		doc.Grid.Pieces = append(doc.Grid.Pieces, xp)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

func buildPiece(p piece) (xmlPiece, error) {
	g := p.g
	for _, f := range p.fields {
		if len(f.Values) != g.NumCells()*f.Components {
			return xmlPiece{}, fmt.Errorf("export: field %q on %q has %d values, want %d",
				f.Name, g.ID, len(f.Values), g.NumCells()*f.Components)
		}
	}

	conn := make([]int, 0, g.NumCells()*g.PointsPerCell())
	offsets := make([]int, 0, g.NumCells())
	types := make([]int, 0, g.NumCells())
	off := 0
	for _, c := range g.Cells {
		conn = append(conn, c...)
		off += len(c)
		offsets = append(offsets, off)
		types = append(types, int(g.CellType))
	}

	xp := xmlPiece{
		NumberOfPoints: g.NumPoints(),
		NumberOfCells:  g.NumCells(),
	}
	xp.Points.Arrays = []xmlDataArray{{
		Type: "Float64", Components: 3, Format: "ascii", Data: formatFloats(g.Points),
	}}
	xp.Cells.Arrays = []xmlDataArray{
		{Type: "Int64", Name: "connectivity", Format: "ascii", Data: formatInts(conn)},
		{Type: "Int64", Name: "offsets", Format: "ascii", Data: formatInts(offsets)},
		{Type: "UInt8", Name: "types", Format: "ascii", Data: formatInts(types)},
	}

	// Metadata first, then selected fields in selector order.
	xp.CellData.Arrays = []xmlDataArray{
		{Type: "Int32", Name: "subdomain_id", Format: "ascii", Data: formatConstInt(p.sdIndex, g.NumCells())},
		{Type: "Int32", Name: "grid_dim", Format: "ascii", Data: formatConstInt(g.Dim, g.NumCells())},
	}
	for _, f := range p.fields {
		da := xmlDataArray{Type: "Float64", Name: f.Name, Format: "ascii", Data: formatFloats(f.Values)}
		if f.Components > 1 {
			da.Components = f.Components
		}
		xp.CellData.Arrays = append(xp.CellData.Arrays, da)
	}
	return xp, nil
}

func formatFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

func formatInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

func formatConstInt(v, n int) string {
	parts := make([]string, n)
	s := strconv.Itoa(v)
	for i := range parts {
		parts[i] = s
	}
	return strings.Join(parts, " ")
}
