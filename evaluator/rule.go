package evaluator

import (
	"fmt"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/request"
	"github.com/dtc-forks/authzforce-core/values"
)

// Decidable is a node a combining algorithm can evaluate: a rule, a policy
// or a policy set.
type Decidable interface {
	// Evaluate computes the node's decision. collectPolicies asks for the
	// applicable-policy list to be populated.
	Evaluate(ctx *request.Context, collectPolicies bool) ChildResult
	// IsApplicableByTarget evaluates only the node's target, for
	// only-one-applicable detection.
	IsApplicableByTarget(ctx *request.Context) (bool, error)
	// EffectClass is the Indeterminate flavor the node can contribute.
	EffectClass() Flavor
}

// Rule is an evaluated XACML rule: effect, optional target, optional
// condition and PEP action expressions.
type Rule struct {
	id         string
	effect     Decision
	target     *Target
	condition  expressions.Expression
	pepActions []PepActionExpression
}

// NewRule builds a rule. effect must be Permit or Deny; the condition, when
// present, must return boolean. Every declared PEP action must fulfill on
// the rule's own effect.
func NewRule(id string, effect Decision, target *Target, condition expressions.Expression, pepActions []PepActionExpression) (*Rule, error) {
	if effect != Permit && effect != Deny {
		return nil, fmt.Errorf("rule %q: effect must be Permit or Deny", id)
	}
	if condition != nil && condition.ReturnType() != constants.DatatypeBoolean {
		return nil, fmt.Errorf("rule %q: condition must return boolean, returns %s", id, condition.ReturnType())
	}
	for _, pa := range pepActions {
		if pa.FulfillOn != effect {
			return nil, fmt.Errorf("rule %q: PEP action %q fulfills on %s, rule effect is %s", id, pa.ID, pa.FulfillOn, effect)
		}
	}
	return &Rule{id: id, effect: effect, target: target, condition: condition, pepActions: pepActions}, nil
}

// ID returns the rule identifier.
func (r *Rule) ID() string { return r.id }

// Effect returns the rule's effect decision.
func (r *Rule) Effect() Decision { return r.effect }

// EffectClass returns the Indeterminate flavor of the rule's effect.
func (r *Rule) EffectClass() Flavor { return effectFlavor(r.effect) }

// IsAlwaysApplicable reports whether the rule has neither target (a nil or
// empty one) nor condition, so its applicability never depends on the request.
func (r *Rule) IsAlwaysApplicable() bool {
	return (r.target == nil || len(r.target.anyOfs) == 0) && r.condition == nil
}

// IsEmptyEquivalent reports whether the rule unconditionally yields its
// effect with no PEP actions.
func (r *Rule) IsEmptyEquivalent() bool {
	return r.IsAlwaysApplicable() && len(r.pepActions) == 0
}

// HasAnyPepAction reports whether the rule declares PEP actions.
func (r *Rule) HasAnyPepAction() bool { return len(r.pepActions) > 0 }

// IsApplicableByTarget evaluates only the rule's target.
func (r *Rule) IsApplicableByTarget(ctx *request.Context) (bool, error) {
	res, err := r.target.evaluate(ctx)
	if res == matchIndeterminate {
		return false, err
	}
	return res == match, nil
}

// Evaluate runs the rule state machine: target, condition, effect.
func (r *Rule) Evaluate(ctx *request.Context, collectPolicies bool) ChildResult {
	targetRes, err := r.target.evaluate(ctx)
	switch targetRes {
	case noMatch:
		return ChildResult{Decision: notApplicable}
	case matchIndeterminate:
		return ChildResult{Decision: indeterminate(r.EffectClass(), err)}
	}

	if r.condition != nil {
		v, err := r.condition.Evaluate(ctx)
		if err != nil {
			return ChildResult{Decision: indeterminate(r.EffectClass(), err)}
		}
		if !bool(v.(values.Boolean)) {
			return ChildResult{Decision: notApplicable}
		}
	}

	actions, err := evaluatePepActions(ctx, r.pepActions, r.effect)
	if err != nil {
		return ChildResult{Decision: indeterminate(r.EffectClass(), err)}
	}
	decision := permit
	if r.effect == Deny {
		decision = deny
	}
	return ChildResult{Decision: decision, PepActions: actions}
}
