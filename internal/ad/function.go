package ad

import "fmt"

// Func is the signature of a wrappable function: it receives value/Jacobian
// pairs and must propagate derivatives itself (the elementwise helpers in
// this package do the chain rule for the common cases).
type Func func(args ...*Array) (*Array, error)

// Function is a named, arity-checked wrapper around a Func. Auxiliary
// arguments that are not differentiated (tolerances, material parameters) are
// bound by closing over them in fn rather than being passed at apply time.
type Function struct {
	name  string
	arity int
	fn    Func
}

func NewFunction(name string, arity int, fn Func) *Function {
	return &Function{name: name, arity: arity, fn: fn}
}

func (f *Function) Name() string { return f.name }

func (f *Function) Arity() int { return f.arity }

// Apply evaluates the wrapped function on args.
func (f *Function) Apply(args ...*Array) (*Array, error) {
	if len(args) != f.arity {
		return nil, fmt.Errorf("ad: function %q takes %d arguments, got %d", f.name, f.arity, len(args))
	}
	out, err := f.fn(args...)
	if err != nil {
		return nil, fmt.Errorf("ad: function %q: %w", f.name, err)
	}
	return out, nil
}
