package ad_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratum/internal/ad"
)

func TestNewVariables_IdentityBlocks(t *testing.T) {
	vars := ad.NewVariables([]float64{1, 2}, []float64{3, 4, 5})
	require.Len(t, vars, 2)

	u, v := vars[0], vars[1]
	assert.Equal(t, []float64{1, 2}, u.Val)
	assert.Equal(t, []float64{3, 4, 5}, v.Val)

	// Both Jacobians span the combined 5 unknowns.
	assert.Equal(t, 5, u.Cols())
	assert.Equal(t, 5, v.Cols())

	// u occupies columns 0-1, v columns 2-4.
	assert.Equal(t, 1.0, u.Jac.At(0, 0))
	assert.Equal(t, 1.0, u.Jac.At(1, 1))
	assert.Equal(t, 0.0, u.Jac.At(0, 2))
	assert.Equal(t, 1.0, v.Jac.At(0, 2))
	assert.Equal(t, 1.0, v.Jac.At(2, 4))
	assert.Equal(t, 0.0, v.Jac.At(0, 0))
}

func TestAdd_Sub(t *testing.T) {
	vars := ad.NewVariables([]float64{1, 2}, []float64{10, 20})
	u, v := vars[0], vars[1]

	sum, err := ad.Add(u, v)
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 22}, sum.Val)
	assert.Equal(t, 1.0, sum.Jac.At(0, 0))
	assert.Equal(t, 1.0, sum.Jac.At(0, 2))

	diff, err := ad.Sub(u, v)
	require.NoError(t, err)
	assert.Equal(t, []float64{-9, -18}, diff.Val)
	assert.Equal(t, 1.0, diff.Jac.At(0, 0))
	assert.Equal(t, -1.0, diff.Jac.At(0, 2))
}

func TestAdd_ConstantKeepsJacobian(t *testing.T) {
	u := ad.NewVariables([]float64{1, 2})[0]
	c := ad.NewConst([]float64{5, 5})

	sum, err := ad.Add(u, c)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 7}, sum.Val)
	assert.Equal(t, 1.0, sum.Jac.At(0, 0))
	assert.Equal(t, 0.0, sum.Jac.At(0, 1))

	// Constant plus constant stays constant.
	cc, err := ad.Add(c, c)
	require.NoError(t, err)
	assert.Nil(t, cc.Jac)
}

func TestMul_ProductRule(t *testing.T) {
	vars := ad.NewVariables([]float64{2, 3}, []float64{5, 7})
	u, v := vars[0], vars[1]

	p, err := ad.Mul(u, v)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 21}, p.Val)

	// d(u v)/du = v, d(u v)/dv = u, elementwise.
	assert.Equal(t, 5.0, p.Jac.At(0, 0))
	assert.Equal(t, 7.0, p.Jac.At(1, 1))
	assert.Equal(t, 2.0, p.Jac.At(0, 2))
	assert.Equal(t, 3.0, p.Jac.At(1, 3))
	assert.Equal(t, 0.0, p.Jac.At(0, 1))
}

func TestDiv_QuotientRule(t *testing.T) {
	vars := ad.NewVariables([]float64{6}, []float64{2})
	u, v := vars[0], vars[1]

	q, err := ad.Div(u, v)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, q.Val[0], 1e-14)
	assert.InDelta(t, 0.5, q.Jac.At(0, 0), 1e-14)  // 1/v
	assert.InDelta(t, -1.5, q.Jac.At(0, 1), 1e-14) // -u/v^2
}

func TestPow(t *testing.T) {
	u := ad.NewVariables([]float64{2, 3})[0]
	p := ad.Pow(u, 3)
	assert.Equal(t, []float64{8, 27}, p.Val)
	assert.InDelta(t, 12.0, p.Jac.At(0, 0), 1e-12) // 3 x^2
	assert.InDelta(t, 27.0, p.Jac.At(1, 1), 1e-12)
}

func TestNeg_Scale_AddScalar(t *testing.T) {
	u := ad.NewVariables([]float64{1, -2})[0]

	n := u.Neg()
	assert.Equal(t, []float64{-1, 2}, n.Val)
	assert.Equal(t, -1.0, n.Jac.At(0, 0))

	s := u.Scale(3)
	assert.Equal(t, []float64{3, -6}, s.Val)
	assert.Equal(t, 3.0, s.Jac.At(0, 0))

	a := u.AddScalar(10)
	assert.Equal(t, []float64{11, 8}, a.Val)
	assert.Equal(t, 1.0, a.Jac.At(0, 0))

	// Originals untouched.
	assert.Equal(t, []float64{1, -2}, u.Val)
	assert.Equal(t, 1.0, u.Jac.At(0, 0))
}

func TestLengthMismatch(t *testing.T) {
	u := ad.NewVariables([]float64{1, 2})[0]
	w := ad.NewConst([]float64{1})

	_, err := ad.Add(u, w)
	assert.Error(t, err)
	_, err = ad.Mul(u, w)
	assert.Error(t, err)
}

func TestChainRule_Composition(t *testing.T) {
	// f(x) = exp(x^2); f'(x) = 2 x exp(x^2).
	x := ad.NewVariables([]float64{1.5})[0]
	sq, err := ad.Mul(x, x)
	require.NoError(t, err)
	f := ad.Exp(sq)

	want := math.Exp(1.5 * 1.5)
	assert.InDelta(t, want, f.Val[0], 1e-12)
	assert.InDelta(t, 2*1.5*want, f.Jac.At(0, 0), 1e-12)
}
