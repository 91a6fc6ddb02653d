package functions

import (
	"errors"
	"testing"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/request"
	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

var testRegistry = NewStandardRegistry()

// invoke binds and evaluates a registered function over constant arguments.
func invoke(t *testing.T, id string, args ...values.Value) (values.Value, error) {
	t.Helper()
	fn, ok := testRegistry.Get(id)
	if !ok {
		t.Fatalf("function %s not registered", id)
	}
	exprs := make([]expressions.Expression, len(args))
	for i, a := range args {
		exprs[i] = expressions.Constant{Value: a}
	}
	call, err := fn.NewCall(exprs)
	if err != nil {
		t.Fatalf("NewCall(%s) failed: %v", id, err)
	}
	return call.Evaluate(nil)
}

func mustInvoke(t *testing.T, id string, args ...values.Value) values.Value {
	t.Helper()
	v, err := invoke(t, id, args...)
	if err != nil {
		t.Fatalf("%s failed: %v", id, err)
	}
	return v
}

func wantStatus(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var se *status.Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *status.Error, got %T: %v", err, err)
	}
	if se.Code != code {
		t.Errorf("status code = %s, want %s", se.Code, code)
	}
}

func stringBag(elems ...string) *values.Bag {
	vs := make([]values.Value, len(elems))
	for i, e := range elems {
		vs[i] = values.String(e)
	}
	bag, _ := values.NewBag(constants.DatatypeString, vs...)
	return bag
}

func intBag(elems ...int64) *values.Bag {
	vs := make([]values.Value, len(elems))
	for i, e := range elems {
		vs[i] = values.Integer(e)
	}
	bag, _ := values.NewBag(constants.DatatypeInteger, vs...)
	return bag
}

func TestStandardRegistryCoverage(t *testing.T) {
	// Spot checks across every function family.
	ids := []string{
		constants.Function10 + "string-equal",
		constants.Function10 + "boolean-equal",
		constants.Function30 + "dayTimeDuration-equal",
		constants.Function30 + "string-equal-ignore-case",
		constants.Function10 + "integer-add",
		constants.Function10 + "double-divide",
		constants.Function10 + "integer-greater-than",
		constants.Function10 + "dateTime-less-than-or-equal",
		constants.Function20 + "time-in-range",
		constants.FunctionAnd,
		constants.FunctionNOf,
		constants.Function20 + "string-concatenate",
		constants.Function30 + "string-substring",
		constants.Function10 + "string-normalize-space",
		constants.Function30 + "boolean-from-string",
		constants.Function30 + "string-from-integer",
		constants.Function10 + "string-regexp-match",
		constants.Function20 + "ipAddress-regexp-match",
		constants.Function10 + "string-one-and-only",
		constants.Function20 + "dnsName-bag-size",
		constants.Function30 + "yearMonthDuration-bag",
		constants.Function10 + "string-intersection",
		constants.Function10 + "anyURI-set-equals",
		constants.Function30 + "dateTime-add-dayTimeDuration",
		constants.Function10 + "x500Name-match",
		constants.Function10 + "rfc822Name-match",
		constants.FunctionAnyOf,
		constants.FunctionMap,
	}
	for _, id := range ids {
		if _, ok := testRegistry.Get(id); !ok {
			t.Errorf("standard registry is missing %s", id)
		}
	}
}

func TestStringSubstring(t *testing.T) {
	id := constants.Function30 + "string-substring"

	got := mustInvoke(t, id, values.String("First test"), values.Integer(6), values.Integer(-1))
	if got.String() != "test" {
		t.Errorf("substring(\"First test\", 6, -1) = %q, want \"test\"", got.String())
	}

	got = mustInvoke(t, id, values.String("First test"), values.Integer(0), values.Integer(5))
	if got.String() != "First" {
		t.Errorf("substring(\"First test\", 0, 5) = %q, want \"First\"", got.String())
	}

	_, err := invoke(t, id, values.String("First test"), values.Integer(6), values.Integer(106))
	wantStatus(t, err, constants.StatusProcessingError)

	_, err = invoke(t, id, values.String("First test"), values.Integer(-2), values.Integer(3))
	wantStatus(t, err, constants.StatusProcessingError)

	_, err = invoke(t, id, values.String("First test"), values.Integer(2), values.Integer(-5))
	wantStatus(t, err, constants.StatusProcessingError)
}

func TestBooleanFromString(t *testing.T) {
	id := constants.Function30 + "boolean-from-string"

	v := mustInvoke(t, id, values.String("true"))
	if v != values.Boolean(true) {
		t.Errorf("boolean-from-string(true) = %v", v)
	}
	v = mustInvoke(t, id, values.String("false"))
	if v != values.Boolean(false) {
		t.Errorf("boolean-from-string(false) = %v", v)
	}

	for _, bad := range []string{"error", "True", "1", ""} {
		_, err := invoke(t, id, values.String(bad))
		wantStatus(t, err, constants.StatusSyntaxError)
	}
}

func TestConversionRoundTrip(t *testing.T) {
	testCases := []struct {
		short   string
		lexical string
	}{
		{"integer", "42"},
		{"double", "2.5"},
		{"boolean", "true"},
		{"date", "2024-03-01"},
		{"dateTime", "2024-03-01T09:30:00Z"},
		{"dayTimeDuration", "P2DT1H"},
		{"yearMonthDuration", "P3Y"},
		{"anyURI", "https://example.com"},
		{"rfc822Name", "a@b.org"},
	}
	for _, tc := range testCases {
		v := mustInvoke(t, constants.Function30+tc.short+"-from-string", values.String(tc.lexical))
		back := mustInvoke(t, constants.Function30+"string-from-"+tc.short, v)
		if back.String() != tc.lexical {
			t.Errorf("string-from-%s(%s-from-string(%q)) = %q", tc.short, tc.short, tc.lexical, back.String())
		}
	}
}

func TestArithmetic(t *testing.T) {
	if v := mustInvoke(t, constants.Function10+"integer-add", values.Integer(1), values.Integer(2), values.Integer(3)); v != values.Integer(6) {
		t.Errorf("integer-add = %v", v)
	}
	if v := mustInvoke(t, constants.Function10+"integer-mod", values.Integer(7), values.Integer(3)); v != values.Integer(1) {
		t.Errorf("integer-mod = %v", v)
	}
	if v := mustInvoke(t, constants.Function10+"floor", values.Double(2.9)); v != values.Double(2) {
		t.Errorf("floor = %v", v)
	}
	if v := mustInvoke(t, constants.Function10+"integer-abs", values.Integer(-5)); v != values.Integer(5) {
		t.Errorf("integer-abs = %v", v)
	}

	_, err := invoke(t, constants.Function10+"integer-divide", values.Integer(1), values.Integer(0))
	wantStatus(t, err, constants.StatusProcessingError)
	_, err = invoke(t, constants.Function10+"double-divide", values.Double(1), values.Double(0))
	wantStatus(t, err, constants.StatusProcessingError)
}

func TestArityAndTypeChecking(t *testing.T) {
	fn, _ := testRegistry.Get(constants.Function10 + "string-equal")
	if _, err := fn.NewCall([]expressions.Expression{expressions.Constant{Value: values.String("a")}}); err == nil {
		t.Error("string-equal must reject a single argument")
	}
	if _, err := fn.NewCall([]expressions.Expression{
		expressions.Constant{Value: values.String("a")},
		expressions.Constant{Value: values.Integer(1)},
	}); err == nil {
		t.Error("string-equal must reject a mistyped argument")
	}

	addFn, _ := testRegistry.Get(constants.Function10 + "integer-add")
	if _, err := addFn.NewCall([]expressions.Expression{expressions.Constant{Value: values.Integer(1)}}); err == nil {
		t.Error("integer-add requires at least two arguments")
	}
}

func TestLogical(t *testing.T) {
	andID := constants.FunctionAnd
	orID := constants.FunctionOr
	nOfID := constants.FunctionNOf

	if v := mustInvoke(t, andID, values.Boolean(true), values.Boolean(true)); v != values.Boolean(true) {
		t.Errorf("and(true,true) = %v", v)
	}
	if v := mustInvoke(t, andID, values.Boolean(true), values.Boolean(false)); v != values.Boolean(false) {
		t.Errorf("and(true,false) = %v", v)
	}
	if v := mustInvoke(t, andID); v != values.Boolean(true) {
		t.Errorf("and() = %v, want true", v)
	}
	if v := mustInvoke(t, orID); v != values.Boolean(false) {
		t.Errorf("or() = %v, want false", v)
	}
	if v := mustInvoke(t, constants.FunctionNot, values.Boolean(false)); v != values.Boolean(true) {
		t.Errorf("not(false) = %v", v)
	}

	if v := mustInvoke(t, nOfID, values.Integer(2), values.Boolean(true), values.Boolean(false), values.Boolean(true)); v != values.Boolean(true) {
		t.Errorf("n-of(2, t, f, t) = %v", v)
	}
	if v := mustInvoke(t, nOfID, values.Integer(3), values.Boolean(true), values.Boolean(false), values.Boolean(true)); v != values.Boolean(false) {
		t.Errorf("n-of(3, t, f, t) = %v", v)
	}
	_, err := invoke(t, nOfID, values.Integer(4), values.Boolean(true))
	wantStatus(t, err, constants.StatusProcessingError)
}

// failing evaluates to an Indeterminate processing error.
type failing struct{}

func (failing) ReturnType() string { return constants.DatatypeBoolean }
func (failing) Evaluate(*request.Context) (values.Value, error) {
	return nil, status.NewProcessingError("boom")
}

func TestAndShortCircuitsPastIndeterminate(t *testing.T) {
	fn, _ := testRegistry.Get(constants.FunctionAnd)
	call, err := fn.NewCall([]expressions.Expression{
		failing{},
		expressions.Constant{Value: values.Boolean(false)},
	})
	if err != nil {
		t.Fatal(err)
	}
	v, err := call.Evaluate(nil)
	if err != nil {
		t.Fatalf("and(indeterminate, false) = error %v, want false", err)
	}
	if v != values.Boolean(false) {
		t.Errorf("and(indeterminate, false) = %v, want false", v)
	}

	call, err = fn.NewCall([]expressions.Expression{
		failing{},
		expressions.Constant{Value: values.Boolean(true)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := call.Evaluate(nil); err == nil {
		t.Error("and(indeterminate, true) must be Indeterminate")
	}
}

func TestRegexpMatch(t *testing.T) {
	id := constants.Function10 + "string-regexp-match"

	testCases := []struct {
		pattern string
		input   string
		want    bool
	}{
		// XML Schema regular expressions match the whole value.
		{"abc", "abc", true},
		{"abc", "xabcx", false},
		{".*abc.*", "xabcx", true},
		{"[0-9]+", "12345", true},
		{"[0-9]+", "12a45", false},
	}
	for _, tc := range testCases {
		v := mustInvoke(t, id, values.String(tc.pattern), values.String(tc.input))
		if v != values.Boolean(tc.want) {
			t.Errorf("regexp-match(%q, %q) = %v, want %v", tc.pattern, tc.input, v, tc.want)
		}
	}

	_, err := invoke(t, id, values.String("(unclosed"), values.String("x"))
	wantStatus(t, err, constants.StatusProcessingError)
}

func TestBagFunctions(t *testing.T) {
	oneAndOnly := constants.Function10 + "string-one-and-only"
	v := mustInvoke(t, oneAndOnly, stringBag("only"))
	if v.String() != "only" {
		t.Errorf("one-and-only = %q", v.String())
	}
	_, err := invoke(t, oneAndOnly, stringBag("a", "b"))
	wantStatus(t, err, constants.StatusProcessingError)
	_, err = invoke(t, oneAndOnly, stringBag())
	wantStatus(t, err, constants.StatusProcessingError)

	if v := mustInvoke(t, constants.Function10+"string-bag-size", stringBag("a", "b", "c")); v != values.Integer(3) {
		t.Errorf("bag-size = %v", v)
	}
	if v := mustInvoke(t, constants.Function10+"string-is-in", values.String("b"), stringBag("a", "b")); v != values.Boolean(true) {
		t.Errorf("is-in = %v", v)
	}
	bagV := mustInvoke(t, constants.Function10+"string-bag", values.String("x"), values.String("y"))
	if bagV.(*values.Bag).Size() != 2 {
		t.Errorf("string-bag size = %d", bagV.(*values.Bag).Size())
	}
}

func TestSetFunctions(t *testing.T) {
	inter := mustInvoke(t, constants.Function10+"string-intersection", stringBag("a", "b", "b", "c"), stringBag("b", "c", "d"))
	if got := inter.(*values.Bag).Size(); got != 2 {
		t.Errorf("intersection size = %d, want 2", got)
	}

	union := mustInvoke(t, constants.Function10+"string-union", stringBag("a", "b"), stringBag("b", "c"))
	if got := union.(*values.Bag).Size(); got != 3 {
		t.Errorf("union size = %d, want 3", got)
	}

	if v := mustInvoke(t, constants.Function10+"string-subset", stringBag("a"), stringBag("a", "b")); v != values.Boolean(true) {
		t.Errorf("subset = %v", v)
	}
	if v := mustInvoke(t, constants.Function10+"string-at-least-one-member-of", stringBag("x", "b"), stringBag("a", "b")); v != values.Boolean(true) {
		t.Errorf("at-least-one-member-of = %v", v)
	}
	if v := mustInvoke(t, constants.Function10+"string-set-equals", stringBag("a", "b", "a"), stringBag("b", "a")); v != values.Boolean(true) {
		t.Errorf("set-equals = %v", v)
	}
}

func TestTemporalArithmetic(t *testing.T) {
	dt := mustInvoke(t, constants.Function30+"dateTime-from-string", values.String("2024-01-31T12:00:00Z"))
	dur := mustInvoke(t, constants.Function30+"dayTimeDuration-from-string", values.String("P1DT1H"))
	got := mustInvoke(t, constants.Function30+"dateTime-add-dayTimeDuration", dt, dur)
	if got.String() != "2024-02-01T13:00:00Z" {
		t.Errorf("dateTime-add-dayTimeDuration = %q", got.String())
	}

	ym := mustInvoke(t, constants.Function30+"yearMonthDuration-from-string", values.String("P1M"))
	date := mustInvoke(t, constants.Function30+"date-from-string", values.String("2024-03-15"))
	got = mustInvoke(t, constants.Function30+"date-add-yearMonthDuration", date, ym)
	if got.String() != "2024-04-15" {
		t.Errorf("date-add-yearMonthDuration = %q", got.String())
	}
}

func TestSpecialMatchers(t *testing.T) {
	x500 := func(s string) values.Value {
		v, err := values.FromString(constants.DatatypeX500Name, s)
		if err != nil {
			t.Fatal(err)
		}
		return v
	}
	if v := mustInvoke(t, constants.Function10+"x500Name-match",
		x500("o=Medico Corp, c=US"), x500("cn=John Smith, o=Medico Corp, c=US")); v != values.Boolean(true) {
		t.Errorf("x500Name-match = %v", v)
	}

	name, _ := values.FromString(constants.DatatypeRFC822Name, "Anne@east.sun.com")
	if v := mustInvoke(t, constants.Function10+"rfc822Name-match", values.String(".sun.com"), name); v != values.Boolean(true) {
		t.Errorf("rfc822Name-match = %v", v)
	}
}
