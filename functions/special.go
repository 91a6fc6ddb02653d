package functions

import (
	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/values"
)

// specialFunctions builds the name matchers with datatype-specific semantics.
func specialFunctions() []expressions.Function {
	return []expressions.Function{
		// x500Name-match(a, b): a terminates b's RDN sequence.
		newFO(constants.Function10+"x500Name-match", constants.DatatypeBoolean,
			[]string{constants.DatatypeX500Name, constants.DatatypeX500Name},
			func(args []values.Value) (values.Value, error) {
				a := args[0].(values.X500Name)
				b := args[1].(values.X500Name)
				return values.Boolean(a.MatchesSuffix(b)), nil
			}),
		// rfc822Name-match(pattern, name): pattern is a full name, a domain,
		// or a ".subdomain" suffix.
		newFO(constants.Function10+"rfc822Name-match", constants.DatatypeBoolean,
			[]string{constants.DatatypeString, constants.DatatypeRFC822Name},
			func(args []values.Value) (values.Value, error) {
				pattern := string(args[0].(values.String))
				name := args[1].(values.RFC822Name)
				return values.Boolean(name.Matches(pattern)), nil
			}),
	}
}
