// Package functions implements the XACML 3.0 standard function set: the
// first-order kernels, the lazy logical functions and the higher-order bag
// functions, all served from a Registry keyed by function identifier URI.
package functions

import (
	"fmt"

	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/request"
	"github.com/dtc-forks/authzforce-core/values"
)

// Registry maps function identifiers to functions. It is populated at PDP
// initialization and read-only afterwards.
type Registry struct {
	fns map[string]expressions.Function
}

// NewRegistry creates an empty function registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]expressions.Function)}
}

// Register adds a function. Registering a duplicate identifier is an error.
func (r *Registry) Register(fn expressions.Function) error {
	if _, exists := r.fns[fn.ID()]; exists {
		return fmt.Errorf("function %s already registered", fn.ID())
	}
	r.fns[fn.ID()] = fn
	return nil
}

// Get retrieves a function by identifier.
func (r *Registry) Get(id string) (expressions.Function, bool) {
	fn, ok := r.fns[id]
	return fn, ok
}

// Size returns the number of registered functions.
func (r *Registry) Size() int { return len(r.fns) }

// kernel is a pure first-order computation over fully evaluated arguments.
type kernel func(args []values.Value) (values.Value, error)

// firstOrder is a first-order function: declared parameter datatypes, a
// return datatype and a kernel. Parameters may be primitive or bag datatype
// identifiers; arguments are matched strictly by return type.
type firstOrder struct {
	id     string
	ret    string
	params []string
	// variadic functions repeat the last declared parameter type and require
	// at least minArity arguments.
	variadic bool
	minArity int
	impure   bool
	kernel   kernel
}

func newFO(id, ret string, params []string, k kernel) *firstOrder {
	return &firstOrder{id: id, ret: ret, params: params, kernel: k}
}

func newFOVariadic(id, ret string, params []string, minArity int, k kernel) *firstOrder {
	return &firstOrder{id: id, ret: ret, params: params, variadic: true, minArity: minArity, kernel: k}
}

func (f *firstOrder) ID() string { return f.id }
func (f *firstOrder) Pure() bool { return !f.impure }

func (f *firstOrder) NewCall(args []expressions.Expression) (expressions.Expression, error) {
	if err := f.checkArgs(args); err != nil {
		return nil, err
	}
	return &firstOrderCall{fn: f, args: args}, nil
}

func (f *firstOrder) checkArgs(args []expressions.Expression) error {
	if f.variadic {
		if len(args) < f.minArity {
			return fmt.Errorf("function %s requires at least %d arguments, got %d", f.id, f.minArity, len(args))
		}
	} else if len(args) != len(f.params) {
		return fmt.Errorf("function %s requires %d arguments, got %d", f.id, len(f.params), len(args))
	}
	for i, arg := range args {
		want := f.paramType(i)
		if got := arg.ReturnType(); got != want {
			return fmt.Errorf("function %s: argument %d has type %s, want %s", f.id, i, got, want)
		}
	}
	return nil
}

func (f *firstOrder) paramType(i int) string {
	if i >= len(f.params) {
		return f.params[len(f.params)-1]
	}
	return f.params[i]
}

type firstOrderCall struct {
	fn   *firstOrder
	args []expressions.Expression
}

func (c *firstOrderCall) ReturnType() string { return c.fn.ret }

func (c *firstOrderCall) Evaluate(ctx *request.Context) (values.Value, error) {
	vals := make([]values.Value, len(c.args))
	for i, arg := range c.args {
		v, err := arg.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return c.fn.kernel(vals)
}

// valueExpr is a pre-evaluated argument slot used by higher-order functions
// to bind sub-function calls over already computed values.
type valueExpr struct {
	datatype string
	v        values.Value
}

func (e *valueExpr) ReturnType() string                              { return e.datatype }
func (e *valueExpr) Evaluate(*request.Context) (values.Value, error) { return e.v, nil }

func mustRegister(r *Registry, fns ...expressions.Function) {
	for _, fn := range fns {
		if err := r.Register(fn); err != nil {
			panic(err)
		}
	}
}
