// Package commands defines the stratum CLI.
//
// Commands
//
//   - info     Summarize the mixed-dimensional grid of a run configuration
//   - solve    Run the Newton contact demo and write a state file
//   - export   Export state files to VTU time steps plus a PVD manifest
//   - collect  Rebuild the PVD manifest from an existing run registry
//
// # Implementation
//
// Commands that need the run configuration build their dependency graph
// (grid, states, exporter, logger) through app.NewWire; collect works from
// the on-disk run registry alone so it can run long after the export.
package commands
