package functions

import (
	"math"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

func arithmeticFunctions() []expressions.Function {
	intT := constants.DatatypeInteger
	dblT := constants.DatatypeDouble

	return []expressions.Function{
		newFOVariadic(constants.Function10+"integer-add", intT, []string{intT}, 2,
			func(args []values.Value) (values.Value, error) {
				var sum int64
				for _, a := range args {
					sum += int64(a.(values.Integer))
				}
				return values.Integer(sum), nil
			}),
		newFOVariadic(constants.Function10+"double-add", dblT, []string{dblT}, 2,
			func(args []values.Value) (values.Value, error) {
				var sum float64
				for _, a := range args {
					sum += float64(a.(values.Double))
				}
				return values.Double(sum), nil
			}),
		newFO(constants.Function10+"integer-subtract", intT, []string{intT, intT},
			func(args []values.Value) (values.Value, error) {
				return values.Integer(int64(args[0].(values.Integer)) - int64(args[1].(values.Integer))), nil
			}),
		newFO(constants.Function10+"double-subtract", dblT, []string{dblT, dblT},
			func(args []values.Value) (values.Value, error) {
				return values.Double(float64(args[0].(values.Double)) - float64(args[1].(values.Double))), nil
			}),
		newFOVariadic(constants.Function10+"integer-multiply", intT, []string{intT}, 2,
			func(args []values.Value) (values.Value, error) {
				prod := int64(1)
				for _, a := range args {
					prod *= int64(a.(values.Integer))
				}
				return values.Integer(prod), nil
			}),
		newFOVariadic(constants.Function10+"double-multiply", dblT, []string{dblT}, 2,
			func(args []values.Value) (values.Value, error) {
				prod := float64(1)
				for _, a := range args {
					prod *= float64(a.(values.Double))
				}
				return values.Double(prod), nil
			}),
		newFO(constants.Function10+"integer-divide", intT, []string{intT, intT},
			func(args []values.Value) (values.Value, error) {
				d := int64(args[1].(values.Integer))
				if d == 0 {
					return nil, status.NewProcessingError("integer-divide: division by zero")
				}
				return values.Integer(int64(args[0].(values.Integer)) / d), nil
			}),
		newFO(constants.Function10+"double-divide", dblT, []string{dblT, dblT},
			func(args []values.Value) (values.Value, error) {
				d := float64(args[1].(values.Double))
				if d == 0 {
					return nil, status.NewProcessingError("double-divide: division by zero")
				}
				return values.Double(float64(args[0].(values.Double)) / d), nil
			}),
		newFO(constants.Function10+"integer-mod", intT, []string{intT, intT},
			func(args []values.Value) (values.Value, error) {
				d := int64(args[1].(values.Integer))
				if d == 0 {
					return nil, status.NewProcessingError("integer-mod: division by zero")
				}
				return values.Integer(int64(args[0].(values.Integer)) % d), nil
			}),
		newFO(constants.Function10+"integer-abs", intT, []string{intT},
			func(args []values.Value) (values.Value, error) {
				n := int64(args[0].(values.Integer))
				if n < 0 {
					n = -n
				}
				return values.Integer(n), nil
			}),
		newFO(constants.Function10+"double-abs", dblT, []string{dblT},
			func(args []values.Value) (values.Value, error) {
				return values.Double(math.Abs(float64(args[0].(values.Double)))), nil
			}),
		newFO(constants.Function10+"round", dblT, []string{dblT},
			func(args []values.Value) (values.Value, error) {
				return values.Double(math.RoundToEven(float64(args[0].(values.Double)))), nil
			}),
		newFO(constants.Function10+"floor", dblT, []string{dblT},
			func(args []values.Value) (values.Value, error) {
				return values.Double(math.Floor(float64(args[0].(values.Double)))), nil
			}),
		newFO(constants.Function10+"integer-to-double", dblT, []string{intT},
			func(args []values.Value) (values.Value, error) {
				return values.Double(float64(args[0].(values.Integer))), nil
			}),
		newFO(constants.Function10+"double-to-integer", intT, []string{dblT},
			func(args []values.Value) (values.Value, error) {
				f := float64(args[0].(values.Double))
				if math.IsNaN(f) || math.IsInf(f, 0) {
					return nil, status.NewProcessingError("double-to-integer: %v has no integer value", f)
				}
				return values.Integer(int64(math.Trunc(f))), nil
			}),
	}
}
