package functions

import (
	"strings"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/values"
)

// equalityFunctions builds <type>-equal for every primitive datatype, plus
// string-equal-ignore-case.
func equalityFunctions() []expressions.Function {
	fns := make([]expressions.Function, 0, len(datatypeTable)+1)
	for _, dt := range datatypeTable {
		dt := dt
		fns = append(fns, newFO(
			dt.ns+dt.short+"-equal",
			constants.DatatypeBoolean,
			[]string{dt.id, dt.id},
			func(args []values.Value) (values.Value, error) {
				return values.Boolean(args[0].Equal(args[1])), nil
			},
		))
	}
	fns = append(fns, newFO(
		constants.Function30+"string-equal-ignore-case",
		constants.DatatypeBoolean,
		[]string{constants.DatatypeString, constants.DatatypeString},
		func(args []values.Value) (values.Value, error) {
			a := string(args[0].(values.String))
			b := string(args[1].(values.String))
			return values.Boolean(strings.EqualFold(a, b)), nil
		},
	))
	return fns
}
