package evaluator

import (
	"fmt"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/request"
)

// Combiner reduces the decisions of a fixed child list to one extended
// decision. Combiners are built at policy load and immutable afterwards.
type Combiner interface {
	Combine(ctx *request.Context, collectPolicies bool) ChildResult
}

// CombiningAlg creates combiners for one combining-algorithm identifier.
type CombiningAlg interface {
	ID() string
	NewCombiner(children []Decidable) (Combiner, error)
}

// AlgRegistry maps combining-algorithm identifiers to implementations.
type AlgRegistry struct {
	algs map[string]CombiningAlg
}

// NewAlgRegistry creates an empty combining-algorithm registry.
func NewAlgRegistry() *AlgRegistry {
	return &AlgRegistry{algs: make(map[string]CombiningAlg)}
}

// Register adds an algorithm under its identifier.
func (r *AlgRegistry) Register(alg CombiningAlg) error {
	if _, exists := r.algs[alg.ID()]; exists {
		return fmt.Errorf("combining algorithm %s already registered", alg.ID())
	}
	r.algs[alg.ID()] = alg
	return nil
}

// Get retrieves an algorithm by identifier.
func (r *AlgRegistry) Get(id string) (CombiningAlg, bool) {
	alg, ok := r.algs[id]
	return alg, ok
}

// algAlias registers an existing algorithm's behavior under another identifier.
type algAlias struct {
	id     string
	target CombiningAlg
}

func (a *algAlias) ID() string { return a.id }
func (a *algAlias) NewCombiner(children []Decidable) (Combiner, error) {
	return a.target.NewCombiner(children)
}

// NewStandardAlgRegistry returns a registry with every standard and legacy
// combining-algorithm identifier.
func NewStandardAlgRegistry() *AlgRegistry {
	r := NewAlgRegistry()

	denyOv := &overridesAlg{id: constants.RuleDenyOverrides, overriding: Deny}
	permitOv := &overridesAlg{id: constants.RulePermitOverrides, overriding: Permit}
	firstApp := &firstApplicableAlg{id: constants.RuleFirstApplicable}
	dup := &unlessAlg{id: constants.RuleDenyUnlessPermit, overriding: Permit, overridden: Deny}
	pud := &unlessAlg{id: constants.RulePermitUnlessDeny, overriding: Deny, overridden: Permit}
	onlyOne := &onlyOneApplicableAlg{id: constants.PolicyOnlyOneApplicable}

	register := func(alg CombiningAlg) {
		if err := r.Register(alg); err != nil {
			panic(err)
		}
	}
	register(denyOv)
	register(permitOv)
	register(firstApp)
	register(dup)
	register(pud)
	register(onlyOne)

	// The ordered variants share the sequential-walk semantics: combiners
	// here always evaluate children in declared order.
	for id, target := range map[string]CombiningAlg{
		constants.RuleOrderedDenyOverrides:     denyOv,
		constants.RuleOrderedPermitOverrides:   permitOv,
		constants.PolicyDenyOverrides:          denyOv,
		constants.PolicyPermitOverrides:        permitOv,
		constants.PolicyOrderedDenyOverrides:   denyOv,
		constants.PolicyOrderedPermitOverrides: permitOv,
		constants.PolicyFirstApplicable:        firstApp,
		constants.PolicyDenyUnlessPermit:       dup,
		constants.PolicyPermitUnlessDeny:       pud,
		constants.LegacyRuleDenyOverrides:      denyOv,
		constants.LegacyRulePermitOverrides:    permitOv,
		constants.LegacyRuleOrderedDeny:        denyOv,
		constants.LegacyRuleOrderedPermit:      permitOv,
		constants.LegacyPolicyDenyOverrides:    denyOv,
		constants.LegacyPolicyPermitOverrides:  permitOv,
		constants.LegacyPolicyOrderedDeny:      denyOv,
		constants.LegacyPolicyOrderedPermit:    permitOv,
	} {
		register(&algAlias{id: id, target: target})
	}
	return r
}

// asRules returns the children as rules when every child is a rule, enabling
// the rule-specialized combiner optimizations.
func asRules(children []Decidable) ([]*Rule, bool) {
	rules := make([]*Rule, len(children))
	for i, c := range children {
		rule, ok := c.(*Rule)
		if !ok {
			return nil, false
		}
		rules[i] = rule
	}
	return rules, true
}

// constantCombiner always returns the same decision, used when an
// empty-equivalent rule decides the outcome statically.
type constantCombiner struct {
	decision ExtendedDecision
}

func (c *constantCombiner) Combine(*request.Context, bool) ChildResult {
	return ChildResult{Decision: c.decision}
}
