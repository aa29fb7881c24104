package solve

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"stratum/internal/ad"
)

// Residual evaluates the system residual at the current unknown. The
// returned Array must carry a square Jacobian over the same unknowns.
type Residual func(u *ad.Array) (*ad.Array, error)

// Config bounds the Newton iteration.
type Config struct {
	Tol     float64 // residual 2-norm target
	MaxIter int
}

// Result is the outcome of a Newton run.
type Result struct {
	U            []float64
	Iterations   int
	Converged    bool
	ResidualNorm float64
}

// Newton iterates u <- u - J^-1 r until the residual norm drops below
// cfg.Tol or cfg.MaxIter is exhausted. A singular Jacobian is an error; a
// non-converged run is reported through Result, not an error.
func Newton(cfg Config, log *zap.Logger, residual Residual, u0 []float64) (Result, error) {
	if cfg.Tol <= 0 {
		return Result{}, fmt.Errorf("solve: tolerance %g", cfg.Tol)
	}
	if cfg.MaxIter < 1 {
		return Result{}, fmt.Errorf("solve: max iterations %d", cfg.MaxIter)
	}
	if log == nil {
		log = zap.NewNop()
	}

	n := len(u0)
	u := append([]float64(nil), u0...)

	res := Result{U: u}
	for it := 1; it <= cfg.MaxIter; it++ {
		uvar := ad.NewVariables(u)[0]
		r, err := residual(uvar)
		if err != nil {
			return Result{}, err
		}
		if len(r.Val) != n {
			return Result{}, fmt.Errorf("solve: residual has %d entries for %d unknowns", len(r.Val), n)
		}
		if r.Jac == nil {
			return Result{}, fmt.Errorf("solve: residual carries no Jacobian")
		}

		norm := floats.Norm(r.Val, 2)
		log.Debug("newton iteration", zap.Int("iter", it), zap.Float64("residual", norm))
		res.Iterations = it
		res.ResidualNorm = norm
		if norm < cfg.Tol {
			res.Converged = true
			return res, nil
		}

		rhs := mat.NewVecDense(n, append([]float64(nil), r.Val...))
		var du mat.VecDense
		if err := du.SolveVec(r.Jac, rhs); err != nil {
			return Result{}, fmt.Errorf("solve: jacobian solve at iteration %d: %w", it, err)
		}
		for i := 0; i < n; i++ {
			u[i] -= du.AtVec(i)
		}
	}

	// Final residual check after the last update.
	uvar := ad.NewVariables(u)[0]
	r, err := residual(uvar)
	if err != nil {
		return Result{}, err
	}
	res.ResidualNorm = floats.Norm(r.Val, 2)
	res.Converged = res.ResidualNorm < cfg.Tol
	return res, nil
}

// Complementarity builds the non-smooth residual
//
//	r(u) = u + stiffness * max(u - gap, 0) - forcing,
//
// the penalized contact-style condition: below the gap the equation is
// linear in u, above it the max term activates and the Jacobian row switches
// branch.
func Complementarity(gap, forcing []float64, stiffness float64) (Residual, error) {
	if len(gap) != len(forcing) {
		return nil, fmt.Errorf("solve: gap has %d entries, forcing %d", len(gap), len(forcing))
	}
	if stiffness < 0 {
		return nil, fmt.Errorf("solve: negative stiffness %g", stiffness)
	}
	g := append([]float64(nil), gap...)
	f := append([]float64(nil), forcing...)
	return func(u *ad.Array) (*ad.Array, error) {
		shifted, err := ad.Sub(u, ad.NewConst(g))
		if err != nil {
			return nil, err
		}
		contact, err := ad.Maximum(shifted, ad.ConstScalar(0, len(g)))
		if err != nil {
			return nil, err
		}
		r, err := ad.Add(u, contact.Scale(stiffness))
		if err != nil {
			return nil, err
		}
		return ad.Sub(r, ad.NewConst(f))
	}, nil
}
