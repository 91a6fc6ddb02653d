package evaluator

import (
	"fmt"

	"github.com/dtc-forks/authzforce-core/request"
)

// Policy evaluates a XACML Policy or PolicySet: target match, child
// combination and PEP-action emission filtered by the final effect.
type Policy struct {
	id        string
	version   PolicyVersion
	policySet bool
	target    *Target
	combiner  Combiner
	variables map[string]request.VariableEvaluator
	pepActions []PepActionExpression
	// effectClass is the Indeterminate flavor reported on target failure,
	// derived from the effects the children can produce.
	effectClass Flavor
}

// NewPolicy assembles an immutable policy evaluator. children must already
// be compiled; alg produces the combiner over them.
func NewPolicy(id string, version PolicyVersion, policySet bool, target *Target, alg CombiningAlg,
	children []Decidable, variables map[string]request.VariableEvaluator, pepActions []PepActionExpression) (*Policy, error) {
	if id == "" {
		return nil, fmt.Errorf("policy requires an id")
	}
	combiner, err := alg.NewCombiner(children)
	if err != nil {
		return nil, fmt.Errorf("policy %q: %w", id, err)
	}
	effectClass := FlavorNone
	for _, child := range children {
		effectClass = effectClass.union(child.EffectClass())
	}
	if effectClass == FlavorNone {
		effectClass = FlavorDP
	}
	return &Policy{
		id:          id,
		version:     version,
		policySet:   policySet,
		target:      target,
		combiner:    combiner,
		variables:   variables,
		pepActions:  pepActions,
		effectClass: effectClass,
	}, nil
}

// ID returns the policy identifier.
func (p *Policy) ID() string { return p.id }

// Version returns the policy version.
func (p *Policy) Version() PolicyVersion { return p.version }

// IsPolicySet reports whether the node is a PolicySet.
func (p *Policy) IsPolicySet() bool { return p.policySet }

// EffectClass returns the Indeterminate flavor class of the policy's
// children.
func (p *Policy) EffectClass() Flavor { return p.effectClass }

// IsApplicableByTarget evaluates only the policy's target.
func (p *Policy) IsApplicableByTarget(ctx *request.Context) (bool, error) {
	res, err := p.target.evaluate(ctx)
	if res == matchIndeterminate {
		return false, err
	}
	return res == match, nil
}

func (p *Policy) identifier() PolicyIdentifier {
	return PolicyIdentifier{ID: p.id, Version: p.version.String(), PolicySet: p.policySet}
}

// Evaluate matches the target, combines the children and, on a Permit or
// Deny, appends the policy's own id and matching PEP actions.
func (p *Policy) Evaluate(ctx *request.Context, collectPolicies bool) ChildResult {
	if len(p.variables) > 0 && ctx != nil {
		ids := ctx.PushVariables(p.variables)
		defer ctx.PopVariables(ids)
	}

	targetRes, err := p.target.evaluate(ctx)
	switch targetRes {
	case noMatch:
		return ChildResult{Decision: notApplicable}
	case matchIndeterminate:
		return ChildResult{Decision: indeterminate(p.effectClass, err)}
	}

	r := p.combiner.Combine(ctx, collectPolicies)
	if r.Decision.Decision != Permit && r.Decision.Decision != Deny {
		// NotApplicable and Indeterminate carry no PEP actions upward.
		r.PepActions = nil
		return r
	}

	ownActions, err := evaluatePepActions(ctx, p.pepActions, r.Decision.Decision)
	if err != nil {
		return ChildResult{
			Decision:           indeterminate(effectFlavor(r.Decision.Decision), err),
			ApplicablePolicies: r.ApplicablePolicies,
		}
	}
	r.PepActions = append(r.PepActions, ownActions...)
	if collectPolicies {
		r.ApplicablePolicies = append(r.ApplicablePolicies, p.identifier())
	}
	return r
}
