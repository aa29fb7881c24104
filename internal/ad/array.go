package ad

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Array is a value vector paired with its Jacobian with respect to the
// global unknowns. A nil Jacobian means identically zero, which is how
// constants are represented.
type Array struct {
	Val []float64
	Jac *mat.Dense
}

// NewConst wraps vals as a constant with zero Jacobian. The slice is copied.
func NewConst(vals []float64) *Array {
	return &Array{Val: append([]float64(nil), vals...)}
}

// ConstScalar broadcasts c to a constant of n entries.
func ConstScalar(c float64, n int) *Array {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = c
	}
	return &Array{Val: vals}
}

// NewVariables seeds one Array per value block. Each returned Array carries
// the identity in its own block of the combined Jacobian and zeros elsewhere,
// so all Jacobians share sum(len(vals)) columns.
func NewVariables(vals ...[]float64) []*Array {
	total := 0
	for _, v := range vals {
		total += len(v)
	}
	out := make([]*Array, len(vals))
	offset := 0
	for i, v := range vals {
		jac := mat.NewDense(len(v), total, nil)
		for r := range v {
			jac.Set(r, offset+r, 1)
		}
		out[i] = &Array{Val: append([]float64(nil), v...), Jac: jac}
		offset += len(v)
	}
	return out
}

func (a *Array) Len() int { return len(a.Val) }

// Cols is the number of unknowns the Jacobian is taken with respect to;
// zero for constants.
func (a *Array) Cols() int {
	if a.Jac == nil {
		return 0
	}
	_, c := a.Jac.Dims()
	return c
}

func (a *Array) Copy() *Array {
	out := &Array{Val: append([]float64(nil), a.Val...)}
	if a.Jac != nil {
		out.Jac = mat.DenseCopyOf(a.Jac)
	}
	return out
}

func (a *Array) Neg() *Array {
	out := a.Copy()
	for i := range out.Val {
		out.Val[i] = -out.Val[i]
	}
	if out.Jac != nil {
		out.Jac.Scale(-1, out.Jac)
	}
	return out
}

// Scale multiplies value and Jacobian by the scalar c.
func (a *Array) Scale(c float64) *Array {
	out := a.Copy()
	for i := range out.Val {
		out.Val[i] *= c
	}
	if out.Jac != nil {
		out.Jac.Scale(c, out.Jac)
	}
	return out
}

// AddScalar shifts every value by c; the Jacobian is unchanged.
func (a *Array) AddScalar(c float64) *Array {
	out := a.Copy()
	for i := range out.Val {
		out.Val[i] += c
	}
	return out
}

func checkLens(op string, a, b *Array) error {
	if len(a.Val) != len(b.Val) {
		return fmt.Errorf("ad: %s: length mismatch %d != %d", op, len(a.Val), len(b.Val))
	}
	if a.Jac != nil && b.Jac != nil {
		_, ca := a.Jac.Dims()
		_, cb := b.Jac.Dims()
		if ca != cb {
			return fmt.Errorf("ad: %s: jacobian column mismatch %d != %d", op, ca, cb)
		}
	}
	return nil
}

// addJac returns a+b treating nil as zero. The result is nil only when both
// are nil; otherwise it is freshly allocated.
func addJac(a, b *mat.Dense) *mat.Dense {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return mat.DenseCopyOf(b)
	case b == nil:
		return mat.DenseCopyOf(a)
	}
	var out mat.Dense
	out.Add(a, b)
	return &out
}

// diagScale returns diag(d) * j, i.e. row i of j scaled by d[i]. Nil in, nil
// out.
func diagScale(d []float64, j *mat.Dense) *mat.Dense {
	if j == nil {
		return nil
	}
	r, c := j.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		row := j.RawRowView(i)
		dst := out.RawRowView(i)
		for k := 0; k < c; k++ {
			dst[k] = d[i] * row[k]
		}
	}
	return out
}

func Add(a, b *Array) (*Array, error) {
	if err := checkLens("add", a, b); err != nil {
		return nil, err
	}
	val := make([]float64, len(a.Val))
	for i := range val {
		val[i] = a.Val[i] + b.Val[i]
	}
	return &Array{Val: val, Jac: addJac(a.Jac, b.Jac)}, nil
}

func Sub(a, b *Array) (*Array, error) {
	return Add(a, b.Neg())
}

// Mul is the elementwise (Hadamard) product with the product rule:
// jac = diag(b) a' + diag(a) b'.
func Mul(a, b *Array) (*Array, error) {
	if err := checkLens("mul", a, b); err != nil {
		return nil, err
	}
	val := make([]float64, len(a.Val))
	for i := range val {
		val[i] = a.Val[i] * b.Val[i]
	}
	return &Array{Val: val, Jac: addJac(diagScale(b.Val, a.Jac), diagScale(a.Val, b.Jac))}, nil
}

// Div is elementwise division: jac = diag(1/b) a' - diag(a/b^2) b'.
func Div(a, b *Array) (*Array, error) {
	if err := checkLens("div", a, b); err != nil {
		return nil, err
	}
	val := make([]float64, len(a.Val))
	da := make([]float64, len(a.Val))
	db := make([]float64, len(a.Val))
	for i := range val {
		val[i] = a.Val[i] / b.Val[i]
		da[i] = 1 / b.Val[i]
		db[i] = -a.Val[i] / (b.Val[i] * b.Val[i])
	}
	return &Array{Val: val, Jac: addJac(diagScale(da, a.Jac), diagScale(db, b.Jac))}, nil
}

// Pow raises a elementwise to the scalar power p:
// jac = diag(p a^(p-1)) a'.
func Pow(a *Array, p float64) *Array {
	val := make([]float64, len(a.Val))
	d := make([]float64, len(a.Val))
	for i := range val {
		val[i] = math.Pow(a.Val[i], p)
		d[i] = p * math.Pow(a.Val[i], p-1)
	}
	return &Array{Val: val, Jac: diagScale(d, a.Jac)}
}
