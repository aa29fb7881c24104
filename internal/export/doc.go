// Package export writes simulation state on a mixed-dimensional grid to VTK
// XML files for visualization.
//
// An Exporter is bound to a grid, a file name stem and an output directory.
// WriteTimeStep writes one VTU file per represented subdomain dimension,
// picking data through selectors: a bare key, a key restricted to a subdomain
// subset, or an explicit array for one subdomain. Data registered as constant
// is written on its own counter and only when its content digest changes, so
// slowly-changing fields are not re-written every step. WritePVD ties all
// written files into a single manifest, optionally annotated with simulation
// times.
package export
