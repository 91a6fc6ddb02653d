package functions

import (
	"strings"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

func stringFunctions() []expressions.Function {
	strT := constants.DatatypeString
	uriT := constants.DatatypeAnyURI
	boolT := constants.DatatypeBoolean
	intT := constants.DatatypeInteger

	return []expressions.Function{
		newFOVariadic(constants.Function20+"string-concatenate", strT, []string{strT}, 2,
			func(args []values.Value) (values.Value, error) {
				var b strings.Builder
				for _, a := range args {
					b.WriteString(string(a.(values.String)))
				}
				return values.String(b.String()), nil
			}),

		newFO(constants.Function30+"string-starts-with", boolT, []string{strT, strT},
			func(args []values.Value) (values.Value, error) {
				return values.Boolean(strings.HasPrefix(string(args[1].(values.String)), string(args[0].(values.String)))), nil
			}),
		newFO(constants.Function30+"string-ends-with", boolT, []string{strT, strT},
			func(args []values.Value) (values.Value, error) {
				return values.Boolean(strings.HasSuffix(string(args[1].(values.String)), string(args[0].(values.String)))), nil
			}),
		newFO(constants.Function30+"string-contains", boolT, []string{strT, strT},
			func(args []values.Value) (values.Value, error) {
				return values.Boolean(strings.Contains(string(args[1].(values.String)), string(args[0].(values.String)))), nil
			}),

		// The anyURI variants take the needle as a string and the haystack as
		// an anyURI, compared on the URI's lexical form.
		newFO(constants.Function30+"anyURI-starts-with", boolT, []string{strT, uriT},
			func(args []values.Value) (values.Value, error) {
				return values.Boolean(strings.HasPrefix(string(args[1].(values.AnyURI)), string(args[0].(values.String)))), nil
			}),
		newFO(constants.Function30+"anyURI-ends-with", boolT, []string{strT, uriT},
			func(args []values.Value) (values.Value, error) {
				return values.Boolean(strings.HasSuffix(string(args[1].(values.AnyURI)), string(args[0].(values.String)))), nil
			}),
		newFO(constants.Function30+"anyURI-contains", boolT, []string{strT, uriT},
			func(args []values.Value) (values.Value, error) {
				return values.Boolean(strings.Contains(string(args[1].(values.AnyURI)), string(args[0].(values.String)))), nil
			}),

		newFO(constants.Function30+"string-substring", strT, []string{strT, intT, intT},
			func(args []values.Value) (values.Value, error) {
				s, err := substring(string(args[0].(values.String)),
					int64(args[1].(values.Integer)), int64(args[2].(values.Integer)))
				if err != nil {
					return nil, err
				}
				return values.String(s), nil
			}),
		newFO(constants.Function30+"anyURI-substring", strT, []string{uriT, intT, intT},
			func(args []values.Value) (values.Value, error) {
				s, err := substring(string(args[0].(values.AnyURI)),
					int64(args[1].(values.Integer)), int64(args[2].(values.Integer)))
				if err != nil {
					return nil, err
				}
				return values.String(s), nil
			}),

		newFO(constants.Function10+"string-normalize-space", strT, []string{strT},
			func(args []values.Value) (values.Value, error) {
				return values.String(strings.TrimSpace(string(args[0].(values.String)))), nil
			}),
		newFO(constants.Function10+"string-normalize-to-lower-case", strT, []string{strT},
			func(args []values.Value) (values.Value, error) {
				return values.String(strings.ToLower(string(args[0].(values.String)))), nil
			}),
	}
}

// substring extracts s[begin:end) by rune index. end = -1 means end of
// string. Out-of-range or inverted bounds are processing errors.
func substring(s string, begin, end int64) (string, error) {
	runes := []rune(s)
	n := int64(len(runes))
	if begin < 0 || begin > n {
		return "", status.NewProcessingError("substring: begin index %d out of range for length %d", begin, n)
	}
	if end == -1 {
		end = n
	}
	if end < begin || end > n {
		return "", status.NewProcessingError("substring: end index %d out of range for length %d", end, n)
	}
	return string(runes[begin:end]), nil
}
