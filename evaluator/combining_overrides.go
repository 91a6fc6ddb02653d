package evaluator

import (
	"github.com/dtc-forks/authzforce-core/request"
)

// overridesAlg implements deny-overrides and permit-overrides (and their
// ordered variants): the overriding effect wins as soon as one child returns
// it; Indeterminate flavors combine per XACML 3.0 appendix C.
type overridesAlg struct {
	id         string
	overriding Decision
}

func (a *overridesAlg) ID() string { return a.id }

func (a *overridesAlg) NewCombiner(children []Decidable) (Combiner, error) {
	return &overridesCombiner{alg: a, children: children}, nil
}

type overridesCombiner struct {
	alg      *overridesAlg
	children []Decidable
}

func (c *overridesCombiner) Combine(ctx *request.Context, collectPolicies bool) ChildResult {
	overriding := c.alg.overriding
	overridden := Permit
	if overriding == Permit {
		overridden = Deny
	}
	overridingFlavor := effectFlavor(overriding)

	out := ChildResult{Decision: notApplicable}
	var overriddenActions []PepAction
	seenOverridden := false
	var indetFlavor Flavor
	var indetStatus *ExtendedDecision

	for _, child := range c.children {
		if err := ctx.Err(); err != nil {
			return ChildResult{Decision: indeterminate(FlavorDP, err), ApplicablePolicies: out.ApplicablePolicies}
		}
		r := child.Evaluate(ctx, collectPolicies)
		if r.Decision.Decision != NotApplicable {
			out.ApplicablePolicies = append(out.ApplicablePolicies, r.ApplicablePolicies...)
		}
		switch r.Decision.Decision {
		case overriding:
			// First overriding decision wins; later children are not
			// evaluated.
			out.Decision = r.Decision
			out.PepActions = r.PepActions
			return out
		case overridden:
			seenOverridden = true
			overriddenActions = append(overriddenActions, r.PepActions...)
		case Indeterminate:
			indetFlavor = indetFlavor.union(r.Decision.Flavor)
			if indetStatus == nil {
				d := r.Decision
				indetStatus = &d
			}
		}
	}

	// An Indeterminate that could have been the overriding effect taints the
	// result; combined with a potential overridden outcome it widens to DP.
	if indetFlavor == FlavorDP || (indetFlavor == overridingFlavor && seenOverridden) {
		out.Decision = ExtendedDecision{Decision: Indeterminate, Flavor: FlavorDP, Status: indetStatus.Status}
		return out
	}
	if indetFlavor == overridingFlavor {
		out.Decision = ExtendedDecision{Decision: Indeterminate, Flavor: overridingFlavor, Status: indetStatus.Status}
		return out
	}
	if seenOverridden {
		out.Decision = ExtendedDecision{Decision: overridden}
		out.PepActions = overriddenActions
		return out
	}
	if indetFlavor != FlavorNone {
		out.Decision = ExtendedDecision{Decision: Indeterminate, Flavor: indetFlavor, Status: indetStatus.Status}
	}
	return out
}
