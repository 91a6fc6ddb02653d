// Package evaluator implements the XACML decision tree: rules, policies,
// policy sets, the combining-algorithm suite and the root PDP.
package evaluator

import (
	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

// Decision is the outcome of evaluating a rule, policy or policy set.
type Decision int

const (
	NotApplicable Decision = iota
	Permit
	Deny
	Indeterminate
)

func (d Decision) String() string {
	switch d {
	case Permit:
		return "Permit"
	case Deny:
		return "Deny"
	case Indeterminate:
		return "Indeterminate"
	}
	return "NotApplicable"
}

// Flavor qualifies an Indeterminate decision by the decisions it could have
// produced.
type Flavor int

const (
	FlavorNone Flavor = iota
	FlavorP
	FlavorD
	FlavorDP
)

func (f Flavor) String() string {
	switch f {
	case FlavorP:
		return "P"
	case FlavorD:
		return "D"
	case FlavorDP:
		return "DP"
	}
	return ""
}

// union merges two flavors: P with D yields DP.
func (f Flavor) union(o Flavor) Flavor {
	if f == FlavorNone {
		return o
	}
	if o == FlavorNone || f == o {
		return f
	}
	return FlavorDP
}

// effectFlavor maps an effect decision to its Indeterminate flavor.
func effectFlavor(effect Decision) Flavor {
	if effect == Permit {
		return FlavorP
	}
	return FlavorD
}

// ExtendedDecision is a decision with its Indeterminate qualification and
// status, the intermediate form combined by combining algorithms.
type ExtendedDecision struct {
	Decision Decision
	Flavor   Flavor
	Status   *status.Error
}

var (
	notApplicable = ExtendedDecision{Decision: NotApplicable}
	permit        = ExtendedDecision{Decision: Permit}
	deny          = ExtendedDecision{Decision: Deny}
)

func indeterminate(flavor Flavor, err error) ExtendedDecision {
	return ExtendedDecision{Decision: Indeterminate, Flavor: flavor, Status: status.Wrap(err)}
}

// AttributeAssignment is one evaluated attribute of a PEP action.
type AttributeAssignment struct {
	AttributeID string
	Category    string
	Issuer      string
	Value       values.Value
}

// PepAction is an evaluated obligation or advice directed at the enforcement
// point.
type PepAction struct {
	ID          string
	Obligatory  bool
	Assignments []AttributeAssignment
}

// PolicyIdentifier names one applicable policy in a decision result.
type PolicyIdentifier struct {
	ID      string
	Version string
	// PolicySet distinguishes policy sets from policies in the reported list.
	PolicySet bool
}

// ChildResult is the full outcome of evaluating one decidable child:
// decision, the PEP actions it emitted and the applicable policies beneath
// it. A NotApplicable or Indeterminate result never carries PEP actions.
type ChildResult struct {
	Decision           ExtendedDecision
	PepActions         []PepAction
	ApplicablePolicies []PolicyIdentifier
}

// DecisionResult is the final, immutable result returned by the PDP.
type DecisionResult struct {
	Decision           Decision
	Flavor             Flavor
	Status             *status.Error
	PepActions         []PepAction
	ApplicablePolicies []PolicyIdentifier
}

func newDecisionResult(r ChildResult) *DecisionResult {
	res := &DecisionResult{
		Decision:           r.Decision.Decision,
		Flavor:             r.Decision.Flavor,
		Status:             r.Decision.Status,
		ApplicablePolicies: r.ApplicablePolicies,
	}
	// PEP actions only accompany a Permit or Deny.
	if res.Decision == Permit || res.Decision == Deny {
		res.PepActions = r.PepActions
	}
	return res
}
