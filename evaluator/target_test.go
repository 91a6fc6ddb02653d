package evaluator

import (
	"testing"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/request"
	"github.com/dtc-forks/authzforce-core/values"
)

// indeterminateMatch builds a match whose designator is must-be-present on
// an attribute no request carries, so evaluating it is Indeterminate.
func indeterminateMatch(t *testing.T) *Match {
	t.Helper()
	fn, ok := testFunctions.Get(constants.Function10 + "string-equal")
	if !ok {
		t.Fatal("string-equal not registered")
	}
	designator, err := expressions.NewAttributeDesignator(
		request.FQN{Category: constants.CategoryAccessSubject, ID: "urn:test:absent"},
		constants.DatatypeString, true)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMatch(fn, values.String("x"), designator)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// plainMatch builds a match on the subject group attribute.
func plainMatch(t *testing.T, want string) *Match {
	t.Helper()
	fn, _ := testFunctions.Get(constants.Function10 + "string-equal")
	designator, err := expressions.NewAttributeDesignator(
		request.FQN{Category: constants.CategoryAccessSubject, ID: "urn:test:group"},
		constants.DatatypeString, false)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMatch(fn, values.String(want), designator)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestTargetThreeValuedConjunction(t *testing.T) {
	ctx := requestContext(t, subjectStringAttr("urn:test:group", "dev"))

	matching := plainMatch(t, "dev")
	unmatched := plainMatch(t, "ops")
	indet := indeterminateMatch(t)

	testCases := []struct {
		name   string
		anyOfs [][][]*Match
		want   matchResult
	}{
		{"all anyOfs match", [][][]*Match{{{matching}}, {{matching}}}, match},
		{"later noMatch dominates earlier indeterminate", [][][]*Match{{{indet}}, {{unmatched}}}, noMatch},
		{"earlier noMatch dominates later indeterminate", [][][]*Match{{{unmatched}}, {{indet}}}, noMatch},
		{"indeterminate with all others matching", [][][]*Match{{{indet}}, {{matching}}}, matchIndeterminate},
		{"noMatch among matches", [][][]*Match{{{matching}}, {{unmatched}}}, noMatch},
	}
	for _, tc := range testCases {
		target := NewTarget(tc.anyOfs)
		r, err := target.evaluate(ctx)
		if r != tc.want {
			t.Errorf("%s: result = %v, want %v", tc.name, r, tc.want)
		}
		if r == matchIndeterminate && err == nil {
			t.Errorf("%s: Indeterminate without a cause", tc.name)
		}
	}
}

func TestAnyOfDisjunctionLetsMatchDominateIndeterminate(t *testing.T) {
	ctx := requestContext(t, subjectStringAttr("urn:test:group", "dev"))

	// AnyOf over [indeterminate AllOf, matching AllOf]: Match dominates.
	target := NewTarget([][][]*Match{{{indeterminateMatch(t)}, {plainMatch(t, "dev")}}})
	r, err := target.evaluate(ctx)
	if r != match {
		t.Errorf("result = %v (err %v), want match", r, err)
	}

	// AnyOf over [indeterminate AllOf, unmatched AllOf]: Indeterminate.
	target = NewTarget([][][]*Match{{{indeterminateMatch(t)}, {plainMatch(t, "ops")}}})
	r, _ = target.evaluate(ctx)
	if r != matchIndeterminate {
		t.Errorf("result = %v, want matchIndeterminate", r)
	}
}
