package functions

import (
	"regexp"
	"sync"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

// Compiled patterns are cached across requests; patterns come from policies,
// so the cache is bounded by the loaded policy set.
var regexpCache sync.Map

// matchRegexp applies a XACML regular expression to a string. XML Schema
// regular expressions match the whole value, so the pattern is anchored.
func matchRegexp(pattern, s string) (bool, error) {
	if re, ok := regexpCache.Load(pattern); ok {
		return re.(*regexp.Regexp).MatchString(s), nil
	}
	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return false, status.NewProcessingError("invalid regular expression %q: %v", pattern, err)
	}
	regexpCache.Store(pattern, re)
	return re.MatchString(s), nil
}

// regexpFunctions builds <type>-regexp-match for the datatypes the standard
// defines it on. The first argument is the string pattern, the second the
// value matched on its lexical form.
func regexpFunctions() []expressions.Function {
	targets := []struct {
		id string
		ns string
		dt string
	}{
		{"string-regexp-match", constants.Function10, constants.DatatypeString},
		{"anyURI-regexp-match", constants.Function20, constants.DatatypeAnyURI},
		{"ipAddress-regexp-match", constants.Function20, constants.DatatypeIPAddress},
		{"dnsName-regexp-match", constants.Function20, constants.DatatypeDNSName},
		{"rfc822Name-regexp-match", constants.Function20, constants.DatatypeRFC822Name},
		{"x500Name-regexp-match", constants.Function20, constants.DatatypeX500Name},
	}

	fns := make([]expressions.Function, 0, len(targets))
	for _, t := range targets {
		t := t
		fns = append(fns, newFO(
			t.ns+t.id,
			constants.DatatypeBoolean,
			[]string{constants.DatatypeString, t.dt},
			func(args []values.Value) (values.Value, error) {
				ok, err := matchRegexp(string(args[0].(values.String)), args[1].String())
				if err != nil {
					return nil, err
				}
				return values.Boolean(ok), nil
			},
		))
	}
	return fns
}
