package evaluator

import (
	"github.com/dtc-forks/authzforce-core/request"
)

// unlessAlg implements deny-unless-permit and permit-unless-deny: the
// overriding effect wins when any child returns it; otherwise the overridden
// effect is returned unconditionally. The result is never NotApplicable or
// Indeterminate.
type unlessAlg struct {
	id         string
	overriding Decision
	overridden Decision
}

func (a *unlessAlg) ID() string { return a.id }

func (a *unlessAlg) NewCombiner(children []Decidable) (Combiner, error) {
	if rules, ok := asRules(children); ok {
		return a.newRuleCombiner(rules), nil
	}
	return &unlessCombiner{alg: a, children: children}, nil
}

// newRuleCombiner builds the rule-specialized combiner: rules with the
// overriding effect are walked first; rules with the overridden effect
// survive only when they carry PEP actions, since a bare overridden rule can
// never change the outcome. An empty-equivalent overriding rule collapses
// the whole combiner to a constant. Rule reordering is sound here because
// the algorithm's result does not depend on child order.
func (a *unlessAlg) newRuleCombiner(rules []*Rule) Combiner {
	var overriding []Decidable
	var overriddenWithActions []Decidable
	for _, rule := range rules {
		if rule.Effect() == a.overriding {
			if rule.IsEmptyEquivalent() {
				return &constantCombiner{decision: ExtendedDecision{Decision: a.overriding}}
			}
			overriding = append(overriding, rule)
		} else if rule.HasAnyPepAction() {
			overriddenWithActions = append(overriddenWithActions, rule)
		}
	}
	return &unlessRuleCombiner{alg: a, overriding: overriding, overridden: overriddenWithActions}
}

type unlessCombiner struct {
	alg      *unlessAlg
	children []Decidable
}

func (c *unlessCombiner) Combine(ctx *request.Context, collectPolicies bool) ChildResult {
	out := ChildResult{Decision: ExtendedDecision{Decision: c.alg.overridden}}
	var overriddenActions []PepAction
	for _, child := range c.children {
		r := child.Evaluate(ctx, collectPolicies)
		if r.Decision.Decision != NotApplicable {
			out.ApplicablePolicies = append(out.ApplicablePolicies, r.ApplicablePolicies...)
		}
		switch r.Decision.Decision {
		case c.alg.overriding:
			out.Decision = r.Decision
			out.PepActions = r.PepActions
			return out
		case c.alg.overridden:
			overriddenActions = append(overriddenActions, r.PepActions...)
		}
	}
	out.PepActions = overriddenActions
	return out
}

type unlessRuleCombiner struct {
	alg        *unlessAlg
	overriding []Decidable
	overridden []Decidable
}

func (c *unlessRuleCombiner) Combine(ctx *request.Context, collectPolicies bool) ChildResult {
	for _, child := range c.overriding {
		r := child.Evaluate(ctx, collectPolicies)
		if r.Decision.Decision == c.alg.overriding {
			return ChildResult{Decision: r.Decision, PepActions: r.PepActions}
		}
	}
	// No overriding rule matched: walk the overridden rules only to collect
	// their PEP actions.
	var actions []PepAction
	for _, child := range c.overridden {
		r := child.Evaluate(ctx, collectPolicies)
		if r.Decision.Decision == c.alg.overridden {
			actions = append(actions, r.PepActions...)
		}
	}
	return ChildResult{Decision: ExtendedDecision{Decision: c.alg.overridden}, PepActions: actions}
}
