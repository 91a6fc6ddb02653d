package evaluator

import (
	"github.com/dtc-forks/authzforce-core/request"
)

// firstApplicableAlg returns the first non-NotApplicable child decision
// verbatim. When all children are rules, the child list is truncated after
// the first always-applicable rule: nothing past it is reachable.
type firstApplicableAlg struct {
	id string
}

func (a *firstApplicableAlg) ID() string { return a.id }

func (a *firstApplicableAlg) NewCombiner(children []Decidable) (Combiner, error) {
	if rules, ok := asRules(children); ok {
		for i, rule := range rules {
			if rule.IsAlwaysApplicable() {
				children = children[:i+1]
				break
			}
		}
	}
	return &firstApplicableCombiner{children: children}, nil
}

type firstApplicableCombiner struct {
	children []Decidable
}

func (c *firstApplicableCombiner) Combine(ctx *request.Context, collectPolicies bool) ChildResult {
	for _, child := range c.children {
		if err := ctx.Err(); err != nil {
			return ChildResult{Decision: indeterminate(FlavorDP, err)}
		}
		r := child.Evaluate(ctx, collectPolicies)
		if r.Decision.Decision != NotApplicable {
			return r
		}
	}
	return ChildResult{Decision: notApplicable}
}
