// Package app wires application dependencies for the CLI.
//
// It parses the YAML run configuration, builds the mixed-dimensional grid,
// state and exporter from it, and exposes the export/solve/collect
// operations the commands invoke.
package app
