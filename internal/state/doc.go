// Package state holds per-grid simulation state: named cell-data fields with
// one or more components per cell. The export package reads state through
// selectors; the solve package writes Newton results into it.
package state
