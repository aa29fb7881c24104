// Package dofs assigns global degree-of-freedom indices to cell-centered
// variables over a mixed-dimensional grid, and moves data between the global
// unknown vector and per-grid state.
package dofs
