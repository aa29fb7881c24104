// Package ad implements forward-mode automatic differentiation on value and
// Jacobian pairs.
//
// An Array couples a value vector with its Jacobian with respect to the
// global unknowns. Variables seeded with NewVariables carry identity blocks;
// arithmetic and the elementwise functions propagate derivatives by the chain
// rule. Non-smooth functions (Maximum, Minimum, Heaviside and friends) assign
// explicit sub-Jacobians row by row.
//
// Functions of an Array that also take non-differentiated auxiliary
// arguments are bound ahead of evaluation by closing over the auxiliaries
// when constructing a Function wrapper:
//
//	char := ad.NewFunction("characteristic", 1, func(v ...*ad.Array) (*ad.Array, error) {
//		return ad.Characteristic(tol, v[0])
//	})
package ad
