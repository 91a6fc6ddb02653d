package functions

import (
	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

// comparisonFunctions builds the ordered-comparison families for integer,
// double, string, date, time and dateTime, plus time-in-range.
func comparisonFunctions() []expressions.Function {
	ordered := []struct {
		id string
		dt string
	}{
		{"integer", constants.DatatypeInteger},
		{"double", constants.DatatypeDouble},
		{"string", constants.DatatypeString},
		{"time", constants.DatatypeTime},
		{"date", constants.DatatypeDate},
		{"dateTime", constants.DatatypeDateTime},
	}
	relations := []struct {
		suffix string
		ok     func(cmp int) bool
	}{
		{"-greater-than", func(c int) bool { return c > 0 }},
		{"-greater-than-or-equal", func(c int) bool { return c >= 0 }},
		{"-less-than", func(c int) bool { return c < 0 }},
		{"-less-than-or-equal", func(c int) bool { return c <= 0 }},
	}

	var fns []expressions.Function
	for _, o := range ordered {
		o := o
		for _, rel := range relations {
			rel := rel
			fns = append(fns, newFO(
				constants.Function10+o.id+rel.suffix,
				constants.DatatypeBoolean,
				[]string{o.dt, o.dt},
				func(args []values.Value) (values.Value, error) {
					cmp, err := values.Compare(args[0], args[1])
					if err != nil {
						return nil, status.Wrap(err)
					}
					return values.Boolean(rel.ok(cmp)), nil
				},
			))
		}
	}

	fns = append(fns, newFO(
		constants.Function20+"time-in-range",
		constants.DatatypeBoolean,
		[]string{constants.DatatypeTime, constants.DatatypeTime, constants.DatatypeTime},
		func(args []values.Value) (values.Value, error) {
			t := args[0].(values.Time).Value()
			lo := args[1].(values.Time).Value()
			hi := args[2].(values.Time).Value()
			if !hi.Before(lo) {
				return values.Boolean(!t.Before(lo) && !t.After(hi)), nil
			}
			// Range crossing midnight: in range when at or after the lower
			// bound or at or before the upper bound.
			return values.Boolean(!t.Before(lo) || !t.After(hi)), nil
		},
	))
	return fns
}
