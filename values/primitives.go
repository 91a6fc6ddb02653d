package values

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dtc-forks/authzforce-core/constants"
)

// String is an xs:string attribute value.
type String string

func (String) DatatypeID() string { return constants.DatatypeString }
func (v String) String() string   { return string(v) }
func (v String) Equal(o Value) bool {
	w, ok := o.(String)
	return ok && v == w
}

// Boolean is an xs:boolean attribute value.
type Boolean bool

func (Boolean) DatatypeID() string { return constants.DatatypeBoolean }
func (v Boolean) String() string   { return strconv.FormatBool(bool(v)) }
func (v Boolean) Equal(o Value) bool {
	w, ok := o.(Boolean)
	return ok && v == w
}

// Integer is an xs:integer attribute value.
type Integer int64

func (Integer) DatatypeID() string { return constants.DatatypeInteger }
func (v Integer) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Integer) Equal(o Value) bool {
	w, ok := o.(Integer)
	return ok && v == w
}

// Double is an xs:double attribute value.
type Double float64

func (Double) DatatypeID() string { return constants.DatatypeDouble }
func (v Double) String() string {
	f := float64(v)
	switch {
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
func (v Double) Equal(o Value) bool {
	w, ok := o.(Double)
	return ok && v == w
}

// AnyURI is an xs:anyURI attribute value. The lexical form is kept verbatim;
// XACML compares anyURI values codepoint-wise, not after normalization.
type AnyURI string

func (AnyURI) DatatypeID() string { return constants.DatatypeAnyURI }
func (v AnyURI) String() string   { return string(v) }
func (v AnyURI) Equal(o Value) bool {
	w, ok := o.(AnyURI)
	return ok && v == w
}

func parseString(s string) (Value, error) { return String(s), nil }

func parseBoolean(s string) (Value, error) {
	// Only the exact literals "true" and "false" are accepted; "1", "0" and
	// mixed case are syntax errors.
	switch s {
	case "true":
		return Boolean(true), nil
	case "false":
		return Boolean(false), nil
	}
	return nil, fmt.Errorf("invalid boolean literal %q", s)
}

func parseInteger(s string) (Value, error) {
	n, err := strconv.ParseInt(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer literal %q", s)
	}
	return Integer(n), nil
}

func parseDouble(s string) (Value, error) {
	switch s {
	case "INF":
		return Double(math.Inf(1)), nil
	case "-INF":
		return Double(math.Inf(-1)), nil
	case "NaN":
		return Double(math.NaN()), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid double literal %q", s)
	}
	return Double(f), nil
}

func parseAnyURI(s string) (Value, error) {
	if strings.ContainsAny(s, " \t\n\r") {
		return nil, fmt.Errorf("invalid anyURI literal %q", s)
	}
	return AnyURI(s), nil
}
