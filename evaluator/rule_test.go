package evaluator

import (
	"testing"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/request"
	"github.com/dtc-forks/authzforce-core/values"
)

func TestRuleStateMachine(t *testing.T) {
	ctx := requestContext(t, subjectStringAttr("urn:test:group", "dev"))

	// Target NoMatch: NotApplicable, no PEP actions.
	r, err := NewRule("r", Permit, falseTarget(t), nil, []PepActionExpression{
		{ID: "urn:test:o", Obligatory: true, FulfillOn: Permit},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := r.Evaluate(ctx, false)
	if got.Decision.Decision != NotApplicable {
		t.Errorf("no-match target: %s, want NotApplicable", got.Decision.Decision)
	}
	if len(got.PepActions) != 0 {
		t.Error("NotApplicable must carry no PEP actions")
	}

	// Target matches, condition true: effect with actions.
	r, err = NewRule("r", Permit, matchTarget(t, "urn:test:group", "dev"),
		boolCondition(t, "urn:test:group", "dev"), []PepActionExpression{
			{ID: "urn:test:o", Obligatory: true, FulfillOn: Permit},
		})
	if err != nil {
		t.Fatal(err)
	}
	got = r.Evaluate(ctx, false)
	if got.Decision.Decision != Permit {
		t.Errorf("matching rule: %s, want Permit", got.Decision.Decision)
	}
	if len(got.PepActions) != 1 {
		t.Errorf("PEP actions = %+v", got.PepActions)
	}

	// Condition false: NotApplicable.
	r, err = NewRule("r", Permit, nil, boolCondition(t, "urn:test:group", "ops"), nil)
	if err != nil {
		t.Fatal(err)
	}
	got = r.Evaluate(ctx, false)
	if got.Decision.Decision != NotApplicable {
		t.Errorf("false condition: %s, want NotApplicable", got.Decision.Decision)
	}
}

func TestRuleIndeterminateCarriesEffectFlavor(t *testing.T) {
	ctx := requestContext(t)

	// A must-be-present designator on an absent attribute fails the
	// condition with missing-attribute.
	failingCondition := func() expressions.Expression {
		designator, err := expressions.NewAttributeDesignator(
			request.FQN{Category: constants.CategoryAccessSubject, ID: "urn:test:absent"},
			constants.DatatypeString, true)
		if err != nil {
			t.Fatal(err)
		}
		anyOf, _ := testFunctions.Get(constants.FunctionAnyOf)
		stringEqual, _ := testFunctions.Get(constants.Function10 + "string-equal")
		cond, err := expressions.Apply(anyOf, []expressions.Expression{
			expressions.FunctionRef{Fn: stringEqual},
			expressions.Constant{Value: values.String("x")},
			designator,
		})
		if err != nil {
			t.Fatal(err)
		}
		return cond
	}

	for _, tc := range []struct {
		effect Decision
		flavor Flavor
	}{
		{Permit, FlavorP},
		{Deny, FlavorD},
	} {
		r, err := NewRule("r", tc.effect, nil, failingCondition(), nil)
		if err != nil {
			t.Fatal(err)
		}
		got := r.Evaluate(ctx, false)
		if got.Decision.Decision != Indeterminate || got.Decision.Flavor != tc.flavor {
			t.Errorf("effect %s: got %s/%s, want Indeterminate/%s",
				tc.effect, got.Decision.Decision, got.Decision.Flavor, tc.flavor)
		}
		if got.Decision.Status == nil || got.Decision.Status.Code != constants.StatusMissingAttribute {
			t.Errorf("effect %s: status = %+v", tc.effect, got.Decision.Status)
		}
		if len(got.PepActions) != 0 {
			t.Error("Indeterminate must carry no PEP actions")
		}
	}
}

func TestRulePredicates(t *testing.T) {
	plain, err := NewRule("r", Deny, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !plain.IsAlwaysApplicable() || !plain.IsEmptyEquivalent() || plain.HasAnyPepAction() {
		t.Error("bare rule predicates are wrong")
	}

	withActions, err := NewRule("r", Deny, nil, nil, []PepActionExpression{
		{ID: "urn:test:o", Obligatory: true, FulfillOn: Deny},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !withActions.IsAlwaysApplicable() || withActions.IsEmptyEquivalent() || !withActions.HasAnyPepAction() {
		t.Error("action-bearing rule predicates are wrong")
	}

	conditioned, err := NewRule("r", Deny, nil, boolCondition(t, "urn:test:g", "x"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if conditioned.IsAlwaysApplicable() || conditioned.IsEmptyEquivalent() {
		t.Error("conditioned rule predicates are wrong")
	}
}

func TestNewRuleRejectsMismatchedPepAction(t *testing.T) {
	_, err := NewRule("r", Permit, nil, nil, []PepActionExpression{
		{ID: "urn:test:o", Obligatory: true, FulfillOn: Deny},
	})
	if err == nil {
		t.Error("PEP action fulfilling on the opposite effect must be rejected at load")
	}
}
