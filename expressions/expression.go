// Package expressions defines the evaluable XACML expression variants:
// constants, attribute designators and selectors, variable references, and
// bound function applications. Expressions evaluate to a typed value or fail
// with a *status.Error, which surfaces as an Indeterminate decision.
package expressions

import (
	"github.com/dtc-forks/authzforce-core/request"
	"github.com/dtc-forks/authzforce-core/values"
)

// Expression is an evaluable node of a policy's expression tree. All
// implementations are immutable after construction.
type Expression interface {
	// Evaluate computes the expression's value in the given context. A nil
	// context is the static context used for constant folding: anything
	// request-dependent must fail in it.
	Evaluate(ctx *request.Context) (values.Value, error)
	// ReturnType is the datatype identifier of the evaluation result.
	ReturnType() string
}

// Function creates bound calls for a function identifier. Implementations
// type-check arguments at policy load, never at evaluation.
type Function interface {
	ID() string
	// Pure reports whether the function's result depends only on its
	// arguments. Impure functions are never constant-folded.
	Pure() bool
	// NewCall type-checks the arguments and returns a bound call expression.
	NewCall(args []Expression) (Expression, error)
}

// StaticValue returns the value of a constant expression, or ok=false for a
// variable expression.
func StaticValue(e Expression) (values.Value, bool) {
	c, ok := e.(Constant)
	if !ok {
		return nil, false
	}
	return c.Value, true
}

// Apply binds a function to its arguments and constant-folds the result when
// the function is pure and every input is statically known.
func Apply(fn Function, args []Expression) (Expression, error) {
	call, err := fn.NewCall(args)
	if err != nil {
		return nil, err
	}
	if !fn.Pure() {
		return call, nil
	}
	// Folding probes the call in the static context; a request-dependent
	// argument fails the probe and the call stays variable.
	v, err := call.Evaluate(nil)
	if err != nil {
		return call, nil
	}
	return Constant{Value: v}, nil
}
