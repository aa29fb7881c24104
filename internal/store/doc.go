// Package store handles the on-disk artifacts of an export run: atomic file
// writes, the run registry that ties time steps to written files, and the
// JSON state files produced by solvers and consumed by the exporter.
package store
