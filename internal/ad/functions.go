package ad

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// elementwise applies f to every value, where f returns the function value
// and its derivative; the chain rule is the diagonal scaling of the Jacobian.
func elementwise(a *Array, f func(x float64) (v, d float64)) *Array {
	val := make([]float64, len(a.Val))
	der := make([]float64, len(a.Val))
	for i, x := range a.Val {
		val[i], der[i] = f(x)
	}
	return &Array{Val: val, Jac: diagScale(der, a.Jac)}
}

func Exp(a *Array) *Array {
	return elementwise(a, func(x float64) (float64, float64) {
		e := math.Exp(x)
		return e, e
	})
}

func Log(a *Array) *Array {
	return elementwise(a, func(x float64) (float64, float64) {
		return math.Log(x), 1 / x
	})
}

func Sqrt(a *Array) *Array {
	return elementwise(a, func(x float64) (float64, float64) {
		s := math.Sqrt(x)
		return s, 0.5 / s
	})
}

// Sign returns the elementwise sign of the values. Like the plain Heaviside
// it carries no derivative information.
func Sign(a *Array) []float64 {
	out := make([]float64, len(a.Val))
	for i, x := range a.Val {
		switch {
		case x > 0:
			out[i] = 1
		case x < 0:
			out[i] = -1
		}
	}
	return out
}

// Abs has derivative sign(x); the kink at zero gets derivative zero.
func Abs(a *Array) *Array {
	s := Sign(a)
	val := make([]float64, len(a.Val))
	for i, x := range a.Val {
		val[i] = math.Abs(x)
	}
	return &Array{Val: val, Jac: diagScale(s, a.Jac)}
}

func Sin(a *Array) *Array {
	return elementwise(a, func(x float64) (float64, float64) {
		return math.Sin(x), math.Cos(x)
	})
}

func Cos(a *Array) *Array {
	return elementwise(a, func(x float64) (float64, float64) {
		return math.Cos(x), -math.Sin(x)
	})
}

func Tan(a *Array) *Array {
	return elementwise(a, func(x float64) (float64, float64) {
		c := math.Cos(x)
		return math.Tan(x), 1 / (c * c)
	})
}

func Sinh(a *Array) *Array {
	return elementwise(a, func(x float64) (float64, float64) {
		return math.Sinh(x), math.Cosh(x)
	})
}

func Cosh(a *Array) *Array {
	return elementwise(a, func(x float64) (float64, float64) {
		return math.Cosh(x), math.Sinh(x)
	})
}

func Tanh(a *Array) *Array {
	return elementwise(a, func(x float64) (float64, float64) {
		c := math.Cosh(x)
		return math.Tanh(x), 1 / (c * c)
	})
}

// Heaviside is the exact step function: 0 below zero, 1 above, zeroValue at
// zero. It is not differentiable, so only values are returned.
func Heaviside(a *Array, zeroValue float64) []float64 {
	out := make([]float64, len(a.Val))
	for i, x := range a.Val {
		switch {
		case x > 0:
			out[i] = 1
		case x == 0:
			out[i] = zeroValue
		}
	}
	return out
}

// HeavisideSmooth is the arctan regularization of the step function,
//
//	H_eps(x) = 1/2 (1 + 2/pi arctan(x/eps)),
//
// whose derivative eps / (pi (eps^2 + x^2)) approximates the delta function.
func HeavisideSmooth(a *Array, eps float64) *Array {
	return elementwise(a, func(x float64) (float64, float64) {
		v := 0.5 * (1 + 2/math.Pi*math.Atan(x/eps))
		d := eps / (math.Pi * (eps*eps + x*x))
		return v, d
	})
}

// Characteristic is 1 where |val| <= tol and 0 elsewhere, with the derivative
// set to zero everywhere. tol is an auxiliary argument; bind it with a
// closure when wrapping in a Function.
func Characteristic(tol float64, a *Array) *Array {
	val := make([]float64, len(a.Val))
	for i, x := range a.Val {
		if math.Abs(x) <= tol {
			val[i] = 1
		}
	}
	var jac *mat.Dense
	if a.Jac != nil {
		r, c := a.Jac.Dims()
		jac = mat.NewDense(r, c, nil)
	}
	return &Array{Val: val, Jac: jac}
}

// Maximum is the elementwise maximum of a and b. The Jacobian row for
// element i is copied from whichever argument attains the maximum, with b
// winning ties. A constant argument contributes zero rows.
func Maximum(a, b *Array) (*Array, error) {
	return pick("maximum", a, b, func(av, bv float64) bool { return bv >= av })
}

// Minimum mirrors Maximum; b wins ties.
func Minimum(a, b *Array) (*Array, error) {
	return pick("minimum", a, b, func(av, bv float64) bool { return bv <= av })
}

// pick implements the non-smooth two-argument selection underlying Maximum
// and Minimum: values and Jacobian rows are taken elementwise from the
// argument chosen by takeB.
func pick(op string, a, b *Array, takeB func(av, bv float64) bool) (*Array, error) {
	if err := checkLens(op, a, b); err != nil {
		return nil, err
	}
	cols := a.Cols()
	if cols == 0 {
		cols = b.Cols()
	}

	val := make([]float64, len(a.Val))
	var jac *mat.Dense
	if cols > 0 {
		jac = mat.NewDense(len(a.Val), cols, nil)
	}
	for i := range val {
		src := a
		if takeB(a.Val[i], b.Val[i]) {
			src = b
		}
		val[i] = src.Val[i]
		if jac != nil && src.Jac != nil {
			jac.SetRow(i, src.Jac.RawRowView(i))
		}
	}
	return &Array{Val: val, Jac: jac}, nil
}

// L2Norm is the cellwise Euclidean norm of a vector quantity with dim
// components per cell, ordered cell-major ([u0, v0, u1, v1, ...]). The chain
// rule gives norm' = var/|var| * var'; cells with |var| below 1e-12 get zero
// rows. dim 1 reduces to Abs.
func L2Norm(dim int, a *Array) (*Array, error) {
	if dim < 1 {
		return nil, fmt.Errorf("ad: l2 norm: dimension %d", dim)
	}
	if dim == 1 {
		return Abs(a), nil
	}
	if len(a.Val)%dim != 0 {
		return nil, fmt.Errorf("ad: l2 norm: %d values not divisible by dimension %d", len(a.Val), dim)
	}
	const tol = 1e-12
	n := len(a.Val) / dim

	val := make([]float64, n)
	// normJac is the (n x len(a.Val)) outer derivative; rows stay zero for
	// vanishing vectors.
	normJac := mat.NewDense(n, len(a.Val), nil)
	for c := 0; c < n; c++ {
		sum := 0.0
		for t := 0; t < dim; t++ {
			x := a.Val[c*dim+t]
			sum += x * x
		}
		val[c] = math.Sqrt(sum)
		if val[c] > tol {
			for t := 0; t < dim; t++ {
				normJac.Set(c, c*dim+t, a.Val[c*dim+t]/val[c])
			}
		}
	}

	var jac *mat.Dense
	if a.Jac != nil {
		jac = &mat.Dense{}
		jac.Mul(normJac, a.Jac)
	}
	return &Array{Val: val, Jac: jac}, nil
}
