package evaluator

import (
	"context"
	"testing"
	"time"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/functions"
	"github.com/dtc-forks/authzforce-core/request"
	"github.com/dtc-forks/authzforce-core/values"
)

var testFunctions = functions.NewStandardRegistry()

// requestContext builds an evaluation context over the given categories.
func requestContext(t *testing.T, cats ...request.RawCategory) *request.Context {
	t.Helper()
	req, err := request.NewPreprocessor(false, 0).Process(cats, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	return request.NewContext(context.Background(), req, time.Now(), 0, nil)
}

// subjectStringAttr builds a subject category holding one string attribute.
func subjectStringAttr(id string, vals ...string) request.RawCategory {
	return request.RawCategory{
		Category: constants.CategoryAccessSubject,
		Attributes: []request.RawAttribute{{
			ID:       id,
			Datatype: constants.DatatypeString,
			Values:   vals,
		}},
	}
}

// matchTarget builds a single-match target: subject attribute id equals want.
func matchTarget(t *testing.T, attrID, want string) *Target {
	t.Helper()
	fn, ok := testFunctions.Get(constants.Function10 + "string-equal")
	if !ok {
		t.Fatal("string-equal not registered")
	}
	designator, err := expressions.NewAttributeDesignator(
		request.FQN{Category: constants.CategoryAccessSubject, ID: attrID},
		constants.DatatypeString, false)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMatch(fn, values.String(want), designator)
	if err != nil {
		t.Fatal(err)
	}
	return NewTarget([][][]*Match{{{m}}})
}

// falseTarget builds a target that never matches: it requires a value in an
// attribute no request carries.
func falseTarget(t *testing.T) *Target {
	t.Helper()
	return matchTarget(t, "urn:test:never-present", "never")
}

// boolCondition builds a condition comparing a subject string attribute to a
// literal via any-of.
func boolCondition(t *testing.T, attrID, want string) expressions.Expression {
	t.Helper()
	anyOf, _ := testFunctions.Get(constants.FunctionAnyOf)
	stringEqual, _ := testFunctions.Get(constants.Function10 + "string-equal")
	designator, err := expressions.NewAttributeDesignator(
		request.FQN{Category: constants.CategoryAccessSubject, ID: attrID},
		constants.DatatypeString, false)
	if err != nil {
		t.Fatal(err)
	}
	cond, err := expressions.Apply(anyOf, []expressions.Expression{
		expressions.FunctionRef{Fn: stringEqual},
		expressions.Constant{Value: values.String(want)},
		designator,
	})
	if err != nil {
		t.Fatal(err)
	}
	return cond
}
