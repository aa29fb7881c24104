// Package solve contains a dense Newton driver for cellwise nonlinear
// equations linearized with forward-mode AD, plus the non-smooth
// complementarity residual used by the CLI demo.
package solve
