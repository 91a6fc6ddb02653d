package functions

import (
	"fmt"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/request"
	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

// The logical functions evaluate their arguments lazily: "and" may return
// false on a false argument even when a later argument would be
// Indeterminate, per XACML A.3.5.

type logicalFunction struct {
	id       string
	minArity int
	nOf      bool
	not      bool
}

func (f *logicalFunction) ID() string { return f.id }
func (f *logicalFunction) Pure() bool { return true }

func (f *logicalFunction) NewCall(args []expressions.Expression) (expressions.Expression, error) {
	if f.not && len(args) != 1 {
		return nil, fmt.Errorf("function %s requires exactly 1 argument, got %d", f.id, len(args))
	}
	if len(args) < f.minArity {
		return nil, fmt.Errorf("function %s requires at least %d arguments, got %d", f.id, f.minArity, len(args))
	}
	for i, arg := range args {
		want := constants.DatatypeBoolean
		if f.nOf && i == 0 {
			want = constants.DatatypeInteger
		}
		if got := arg.ReturnType(); got != want {
			return nil, fmt.Errorf("function %s: argument %d has type %s, want %s", f.id, i, got, want)
		}
	}
	return &logicalCall{fn: f, args: args}, nil
}

type logicalCall struct {
	fn   *logicalFunction
	args []expressions.Expression
}

func (c *logicalCall) ReturnType() string { return constants.DatatypeBoolean }

func (c *logicalCall) Evaluate(ctx *request.Context) (values.Value, error) {
	switch {
	case c.fn.not:
		v, err := c.args[0].Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		return values.Boolean(!bool(v.(values.Boolean))), nil
	case c.fn.nOf:
		return c.evaluateNOf(ctx)
	case c.fn.id == constants.FunctionAnd:
		return c.evaluateAndOr(ctx, false)
	}
	return c.evaluateAndOr(ctx, true)
}

// evaluateAndOr short-circuits on the decisive value (false for and, true
// for or). An Indeterminate argument is remembered and only surfaces when no
// later argument decides the result.
func (c *logicalCall) evaluateAndOr(ctx *request.Context, decisive bool) (values.Value, error) {
	var firstErr error
	for _, arg := range c.args {
		v, err := arg.Evaluate(ctx)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if bool(v.(values.Boolean)) == decisive {
			return values.Boolean(decisive), nil
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return values.Boolean(!decisive), nil
}

func (c *logicalCall) evaluateNOf(ctx *request.Context) (values.Value, error) {
	nv, err := c.args[0].Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	n := int64(nv.(values.Integer))
	rest := c.args[1:]
	if n < 0 {
		return nil, status.NewProcessingError("n-of: negative threshold %d", n)
	}
	if n > int64(len(rest)) {
		return nil, status.NewProcessingError("n-of: threshold %d exceeds argument count %d", n, len(rest))
	}
	if n == 0 {
		return values.Boolean(true), nil
	}

	var trues, indeterminates int64
	var firstErr error
	for _, arg := range rest {
		v, err := arg.Evaluate(ctx)
		if err != nil {
			indeterminates++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if bool(v.(values.Boolean)) {
			trues++
			if trues >= n {
				return values.Boolean(true), nil
			}
		}
	}
	if trues+indeterminates >= n {
		return nil, firstErr
	}
	return values.Boolean(false), nil
}

func logicalFunctions() []expressions.Function {
	return []expressions.Function{
		&logicalFunction{id: constants.FunctionAnd},
		&logicalFunction{id: constants.FunctionOr},
		&logicalFunction{id: constants.FunctionNOf, minArity: 1, nOf: true},
		&logicalFunction{id: constants.FunctionNot, not: true},
	}
}
