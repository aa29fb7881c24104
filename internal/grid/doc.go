// Package grid provides tensor-product grids of dimension 0 to 3 and the
// mixed-dimensional grid that collects subdomains of different dimensions
// together with the interfaces coupling them.
//
// Grids carry explicit point coordinates and per-cell point lists in VTK
// ordering, which is what the export package consumes.
package grid
