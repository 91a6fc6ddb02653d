package evaluator

import (
	"github.com/dtc-forks/authzforce-core/request"
	"github.com/dtc-forks/authzforce-core/status"
)

// onlyOneApplicableAlg implements only-one-applicable: the decision of the
// single applicable child, Indeterminate when applicability cannot be
// established or more than one child is applicable.
type onlyOneApplicableAlg struct {
	id string
}

func (a *onlyOneApplicableAlg) ID() string { return a.id }

func (a *onlyOneApplicableAlg) NewCombiner(children []Decidable) (Combiner, error) {
	return &onlyOneCombiner{children: children}, nil
}

type onlyOneCombiner struct {
	children []Decidable
}

func (c *onlyOneCombiner) Combine(ctx *request.Context, collectPolicies bool) ChildResult {
	var selected Decidable
	for _, child := range c.children {
		if err := ctx.Err(); err != nil {
			return ChildResult{Decision: indeterminate(FlavorDP, err)}
		}
		applicable, err := child.IsApplicableByTarget(ctx)
		if err != nil {
			return ChildResult{Decision: indeterminate(FlavorDP, err)}
		}
		if !applicable {
			continue
		}
		if selected != nil {
			return ChildResult{Decision: indeterminate(FlavorDP,
				status.NewProcessingError("more than one applicable policy under only-one-applicable"))}
		}
		selected = child
	}
	if selected == nil {
		return ChildResult{Decision: notApplicable}
	}
	return selected.Evaluate(ctx, collectPolicies)
}
