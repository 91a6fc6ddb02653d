package functions

import (
	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

// conversionFunctions builds <type>-from-string and string-from-<type> for
// every non-string primitive datatype. Parse failures are syntax errors.
func conversionFunctions() []expressions.Function {
	strT := constants.DatatypeString
	var fns []expressions.Function
	for _, dt := range datatypeTable {
		dt := dt
		if dt.id == strT {
			continue
		}
		fns = append(fns,
			newFO(constants.Function30+dt.short+"-from-string", dt.id, []string{strT},
				func(args []values.Value) (values.Value, error) {
					v, err := values.FromString(dt.id, string(args[0].(values.String)))
					if err != nil {
						return nil, status.NewSyntaxError("%s-from-string: %v", dt.short, err)
					}
					return v, nil
				}),
			newFO(constants.Function30+"string-from-"+dt.short, strT, []string{dt.id},
				func(args []values.Value) (values.Value, error) {
					return values.String(args[0].String()), nil
				}),
		)
	}
	return fns
}
