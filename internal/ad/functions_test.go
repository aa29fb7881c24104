package ad_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratum/internal/ad"
)

func TestElementwise_Derivatives(t *testing.T) {
	x0 := 0.7
	cases := []struct {
		name  string
		f     func(*ad.Array) *ad.Array
		val   float64
		deriv float64
	}{
		{"exp", ad.Exp, math.Exp(x0), math.Exp(x0)},
		{"log", ad.Log, math.Log(x0), 1 / x0},
		{"sqrt", ad.Sqrt, math.Sqrt(x0), 0.5 / math.Sqrt(x0)},
		{"sin", ad.Sin, math.Sin(x0), math.Cos(x0)},
		{"cos", ad.Cos, math.Cos(x0), -math.Sin(x0)},
		{"tan", ad.Tan, math.Tan(x0), 1 / (math.Cos(x0) * math.Cos(x0))},
		{"sinh", ad.Sinh, math.Sinh(x0), math.Cosh(x0)},
		{"cosh", ad.Cosh, math.Cosh(x0), math.Sinh(x0)},
		{"tanh", ad.Tanh, math.Tanh(x0), 1 / (math.Cosh(x0) * math.Cosh(x0))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x := ad.NewVariables([]float64{x0})[0]
			y := tc.f(x)
			assert.InDelta(t, tc.val, y.Val[0], 1e-12)
			assert.InDelta(t, tc.deriv, y.Jac.At(0, 0), 1e-12)
		})
	}
}

func TestAbs_Sign(t *testing.T) {
	x := ad.NewVariables([]float64{-2, 0, 3})[0]

	assert.Equal(t, []float64{-1, 0, 1}, ad.Sign(x))

	y := ad.Abs(x)
	assert.Equal(t, []float64{2, 0, 3}, y.Val)
	assert.Equal(t, -1.0, y.Jac.At(0, 0))
	assert.Equal(t, 0.0, y.Jac.At(1, 1), "kink at zero")
	assert.Equal(t, 1.0, y.Jac.At(2, 2))
}

func TestHeaviside(t *testing.T) {
	x := ad.NewVariables([]float64{-1, 0, 2})[0]
	assert.Equal(t, []float64{0, 0.5, 1}, ad.Heaviside(x, 0.5))
	assert.Equal(t, []float64{0, 0, 1}, ad.Heaviside(x, 0))
}

func TestHeavisideSmooth(t *testing.T) {
	eps := 1e-3
	x := ad.NewVariables([]float64{0})[0]
	y := ad.HeavisideSmooth(x, eps)

	// At zero the regularization crosses 1/2 with slope 1/(pi eps).
	assert.InDelta(t, 0.5, y.Val[0], 1e-14)
	assert.InDelta(t, 1/(math.Pi*eps), y.Jac.At(0, 0), 1e-9)

	// Far from zero it saturates and the derivative vanishes.
	far := ad.NewVariables([]float64{1})[0]
	yf := ad.HeavisideSmooth(far, eps)
	assert.InDelta(t, 1.0, yf.Val[0], 1e-3)
	assert.Less(t, yf.Jac.At(0, 0), 1e-2)
}

func TestCharacteristic(t *testing.T) {
	x := ad.NewVariables([]float64{0, 1e-9, 0.5})[0]
	y := ad.Characteristic(1e-6, x)

	assert.Equal(t, []float64{1, 1, 0}, y.Val)
	// Derivative forced to zero everywhere.
	require.NotNil(t, y.Jac)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, 0.0, y.Jac.At(i, j))
		}
	}
}

func TestMaximum_RowPicking(t *testing.T) {
	vars := ad.NewVariables([]float64{1, 5, 2}, []float64{3, 4, 2})
	a, b := vars[0], vars[1]

	m, err := ad.Maximum(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5, 2}, m.Val)

	// Element 0: b wins, row from b's block (columns 3-5).
	assert.Equal(t, 0.0, m.Jac.At(0, 0))
	assert.Equal(t, 1.0, m.Jac.At(0, 3))
	// Element 1: a wins, row from a's block.
	assert.Equal(t, 1.0, m.Jac.At(1, 1))
	assert.Equal(t, 0.0, m.Jac.At(1, 4))
	// Element 2: tie, b wins.
	assert.Equal(t, 0.0, m.Jac.At(2, 2))
	assert.Equal(t, 1.0, m.Jac.At(2, 5))
}

func TestMaximum_ConstantArgument(t *testing.T) {
	a := ad.NewVariables([]float64{1, 5})[0]
	zero := ad.ConstScalar(2, 2)

	m, err := ad.Maximum(a, zero)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, m.Val)

	// Where the constant wins the Jacobian row is zero.
	assert.Equal(t, 0.0, m.Jac.At(0, 0))
	assert.Equal(t, 1.0, m.Jac.At(1, 1))
}

func TestMaximum_BothConstant(t *testing.T) {
	a := ad.NewConst([]float64{1, 5})
	b := ad.NewConst([]float64{3, 4})
	m, err := ad.Maximum(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5}, m.Val)
	assert.Nil(t, m.Jac)
}

func TestMinimum(t *testing.T) {
	vars := ad.NewVariables([]float64{1, 5, 2}, []float64{3, 4, 2})
	a, b := vars[0], vars[1]

	m, err := ad.Minimum(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4, 2}, m.Val)

	assert.Equal(t, 1.0, m.Jac.At(0, 0), "a wins element 0")
	assert.Equal(t, 1.0, m.Jac.At(1, 4), "b wins element 1")
	assert.Equal(t, 1.0, m.Jac.At(2, 5), "tie goes to b")
}

func TestL2Norm(t *testing.T) {
	// Two cells with 2 components each: (3,4) and (0,0).
	v := ad.NewVariables([]float64{3, 4, 0, 0})[0]

	n, err := ad.L2Norm(2, v)
	require.NoError(t, err)
	require.Len(t, n.Val, 2)
	assert.InDelta(t, 5.0, n.Val[0], 1e-12)
	assert.Equal(t, 0.0, n.Val[1])

	// Row 0 is v/|v| in the cell's columns.
	assert.InDelta(t, 0.6, n.Jac.At(0, 0), 1e-12)
	assert.InDelta(t, 0.8, n.Jac.At(0, 1), 1e-12)
	// Zero vector gets a zero row, not NaN.
	assert.Equal(t, 0.0, n.Jac.At(1, 2))
	assert.Equal(t, 0.0, n.Jac.At(1, 3))
}

func TestL2Norm_Errors(t *testing.T) {
	v := ad.NewVariables([]float64{1, 2, 3})[0]
	_, err := ad.L2Norm(2, v)
	assert.Error(t, err, "length not divisible by dim")

	_, err = ad.L2Norm(0, v)
	assert.Error(t, err)
}

func TestL2Norm_Dim1IsAbs(t *testing.T) {
	v := ad.NewVariables([]float64{-2})[0]
	n, err := ad.L2Norm(1, v)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, n.Val)
	assert.Equal(t, -1.0, n.Jac.At(0, 0))
}
