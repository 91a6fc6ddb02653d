package evaluator

import (
	"fmt"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/functions"
	"github.com/dtc-forks/authzforce-core/models"
	"github.com/dtc-forks/authzforce-core/request"
	"github.com/dtc-forks/authzforce-core/values"
)

// Compiler turns policy documents into immutable evaluators. Documents are
// added first; compilation resolves references against the added set and
// fails initialization on any structural error, unknown identifier or
// reference cycle.
type Compiler struct {
	fns  *functions.Registry
	algs *AlgRegistry

	policyDocs    *PolicyMap[*models.PolicyDoc]
	policySetDocs *PolicyMap[*models.PolicySetDoc]

	compiled   map[string]*Policy
	inProgress map[string]bool
}

// NewCompiler creates a compiler over the given function and
// combining-algorithm registries.
func NewCompiler(fns *functions.Registry, algs *AlgRegistry) *Compiler {
	return &Compiler{
		fns:           fns,
		algs:          algs,
		policyDocs:    NewPolicyMap[*models.PolicyDoc](),
		policySetDocs: NewPolicyMap[*models.PolicySetDoc](),
		compiled:      make(map[string]*Policy),
		inProgress:    make(map[string]bool),
	}
}

// AddDocument registers a policy document for compilation and reference
// resolution.
func (c *Compiler) AddDocument(doc *models.PolicyDocument) error {
	switch {
	case doc.Policy != nil && doc.PolicySet == nil:
		v, err := ParsePolicyVersion(doc.Policy.Version)
		if err != nil {
			return fmt.Errorf("policy %q: %w", doc.Policy.ID, err)
		}
		return c.policyDocs.Put(doc.Policy.ID, v, doc.Policy)
	case doc.PolicySet != nil && doc.Policy == nil:
		v, err := ParsePolicyVersion(doc.PolicySet.Version)
		if err != nil {
			return fmt.Errorf("policy set %q: %w", doc.PolicySet.ID, err)
		}
		return c.policySetDocs.Put(doc.PolicySet.ID, v, doc.PolicySet)
	}
	return fmt.Errorf("document must hold exactly one of policy or policy_set")
}

// CompileRoot resolves and compiles the root by id, trying policy sets
// first, then policies.
func (c *Compiler) CompileRoot(id string, patterns *VersionPatterns) (*Policy, error) {
	if doc, v, ok := c.policySetDocs.Get(id, patterns); ok {
		return c.compilePolicySet(doc, v)
	}
	if doc, v, ok := c.policyDocs.Get(id, patterns); ok {
		return c.compilePolicy(doc, v)
	}
	return nil, fmt.Errorf("root policy %q not found", id)
}

func compileKey(policySet bool, id string, v PolicyVersion) string {
	kind := "p"
	if policySet {
		kind = "ps"
	}
	return kind + "|" + id + "|" + v.String()
}

func (c *Compiler) compilePolicy(doc *models.PolicyDoc, v PolicyVersion) (*Policy, error) {
	key := compileKey(false, doc.ID, v)
	if p, ok := c.compiled[key]; ok {
		return p, nil
	}

	alg, ok := c.algs.Get(doc.CombiningAlgID)
	if !ok {
		return nil, fmt.Errorf("policy %q: unknown combining algorithm %s", doc.ID, doc.CombiningAlgID)
	}

	scope := make(map[string]string)
	varEvals := make(map[string]request.VariableEvaluator, len(doc.Variables))
	for _, vd := range doc.Variables {
		if _, dup := scope[vd.ID]; dup {
			return nil, fmt.Errorf("policy %q: duplicate variable %q", doc.ID, vd.ID)
		}
		expr, err := c.compileExpression(&vd.Expression, scope)
		if err != nil {
			return nil, fmt.Errorf("policy %q variable %q: %w", doc.ID, vd.ID, err)
		}
		scope[vd.ID] = expr.ReturnType()
		varEvals[vd.ID] = expr.Evaluate
	}

	target, err := c.compileTarget(doc.Target, scope)
	if err != nil {
		return nil, fmt.Errorf("policy %q: %w", doc.ID, err)
	}

	children := make([]Decidable, 0, len(doc.Rules))
	for _, rd := range doc.Rules {
		rule, err := c.compileRule(&rd, scope)
		if err != nil {
			return nil, fmt.Errorf("policy %q: %w", doc.ID, err)
		}
		children = append(children, rule)
	}

	peps, err := c.compilePepActions(doc.Obligations, doc.Advice, scope)
	if err != nil {
		return nil, fmt.Errorf("policy %q: %w", doc.ID, err)
	}

	p, err := NewPolicy(doc.ID, v, false, target, alg, children, varEvals, peps)
	if err != nil {
		return nil, err
	}
	c.compiled[key] = p
	return p, nil
}

func (c *Compiler) compilePolicySet(doc *models.PolicySetDoc, v PolicyVersion) (*Policy, error) {
	key := compileKey(true, doc.ID, v)
	if p, ok := c.compiled[key]; ok {
		return p, nil
	}
	if c.inProgress[key] {
		return nil, fmt.Errorf("policy set %q version %s: circular policy reference", doc.ID, v)
	}
	c.inProgress[key] = true
	defer delete(c.inProgress, key)

	alg, ok := c.algs.Get(doc.CombiningAlgID)
	if !ok {
		return nil, fmt.Errorf("policy set %q: unknown combining algorithm %s", doc.ID, doc.CombiningAlgID)
	}

	target, err := c.compileTarget(doc.Target, nil)
	if err != nil {
		return nil, fmt.Errorf("policy set %q: %w", doc.ID, err)
	}

	children := make([]Decidable, 0, len(doc.Children))
	for i, child := range doc.Children {
		compiled, err := c.compileChild(&child)
		if err != nil {
			return nil, fmt.Errorf("policy set %q child %d: %w", doc.ID, i, err)
		}
		children = append(children, compiled)
	}

	peps, err := c.compilePepActions(doc.Obligations, doc.Advice, nil)
	if err != nil {
		return nil, fmt.Errorf("policy set %q: %w", doc.ID, err)
	}

	p, err := NewPolicy(doc.ID, v, true, target, alg, children, nil, peps)
	if err != nil {
		return nil, err
	}
	c.compiled[key] = p
	return p, nil
}

func (c *Compiler) compileChild(child *models.PolicyChildDoc) (Decidable, error) {
	switch {
	case child.Policy != nil:
		v, err := ParsePolicyVersion(child.Policy.Version)
		if err != nil {
			return nil, err
		}
		return c.compilePolicy(child.Policy, v)
	case child.PolicySet != nil:
		v, err := ParsePolicyVersion(child.PolicySet.Version)
		if err != nil {
			return nil, err
		}
		return c.compilePolicySet(child.PolicySet, v)
	case child.PolicyRef != nil:
		patterns, err := refPatterns(child.PolicyRef)
		if err != nil {
			return nil, err
		}
		doc, v, ok := c.policyDocs.Get(child.PolicyRef.ID, patterns)
		if !ok {
			return nil, fmt.Errorf("unresolved policy reference %q", child.PolicyRef.ID)
		}
		return c.compilePolicy(doc, v)
	case child.PolicySetRef != nil:
		patterns, err := refPatterns(child.PolicySetRef)
		if err != nil {
			return nil, err
		}
		doc, v, ok := c.policySetDocs.Get(child.PolicySetRef.ID, patterns)
		if !ok {
			return nil, fmt.Errorf("unresolved policy set reference %q", child.PolicySetRef.ID)
		}
		return c.compilePolicySet(doc, v)
	}
	return nil, fmt.Errorf("child must hold exactly one of policy, policy_set, policy_ref, policy_set_ref")
}

func refPatterns(ref *models.PolicyRefDoc) (*VersionPatterns, error) {
	patterns := &VersionPatterns{}
	set := func(dst **VersionPattern, s string) error {
		if s == "" {
			return nil
		}
		p, err := ParseVersionPattern(s)
		if err != nil {
			return err
		}
		*dst = &p
		return nil
	}
	if err := set(&patterns.Version, ref.Version); err != nil {
		return nil, err
	}
	if err := set(&patterns.Earliest, ref.EarliestVersion); err != nil {
		return nil, err
	}
	if err := set(&patterns.Latest, ref.LatestVersion); err != nil {
		return nil, err
	}
	return patterns, nil
}

func (c *Compiler) compileRule(doc *models.RuleDoc, scope map[string]string) (*Rule, error) {
	effect, err := parseEffect(doc.Effect)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", doc.ID, err)
	}
	target, err := c.compileTarget(doc.Target, scope)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", doc.ID, err)
	}
	var condition expressions.Expression
	if doc.Condition != nil {
		condition, err = c.compileExpression(doc.Condition, scope)
		if err != nil {
			return nil, fmt.Errorf("rule %q condition: %w", doc.ID, err)
		}
	}
	peps, err := c.compilePepActions(doc.Obligations, doc.Advice, scope)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", doc.ID, err)
	}
	return NewRule(doc.ID, effect, target, condition, peps)
}

func (c *Compiler) compileTarget(doc *models.TargetDoc, scope map[string]string) (*Target, error) {
	if doc == nil || len(doc.AnyOf) == 0 {
		return nil, nil
	}
	anyOfs := make([][][]*Match, 0, len(doc.AnyOf))
	for _, ao := range doc.AnyOf {
		if len(ao.AllOf) == 0 {
			return nil, fmt.Errorf("target AnyOf requires at least one AllOf")
		}
		allOfs := make([][]*Match, 0, len(ao.AllOf))
		for _, all := range ao.AllOf {
			if len(all.Matches) == 0 {
				return nil, fmt.Errorf("target AllOf requires at least one Match")
			}
			matches := make([]*Match, 0, len(all.Matches))
			for _, md := range all.Matches {
				m, err := c.compileMatch(&md)
				if err != nil {
					return nil, err
				}
				matches = append(matches, m)
			}
			allOfs = append(allOfs, matches)
		}
		anyOfs = append(anyOfs, allOfs)
	}
	return NewTarget(anyOfs), nil
}

func (c *Compiler) compileMatch(doc *models.MatchDoc) (*Match, error) {
	fn, ok := c.fns.Get(doc.MatchID)
	if !ok {
		return nil, fmt.Errorf("unknown match function %s", doc.MatchID)
	}
	literal, err := values.FromString(doc.Value.Datatype, doc.Value.Value)
	if err != nil {
		return nil, fmt.Errorf("match literal: %w", err)
	}
	source, err := c.compileBagSource(doc.Designator, doc.Selector)
	if err != nil {
		return nil, err
	}
	return NewMatch(fn, literal, source)
}

func (c *Compiler) compileBagSource(d *models.DesignatorDoc, s *models.SelectorDoc) (expressions.Expression, error) {
	switch {
	case d != nil && s == nil:
		fqn := request.FQN{Category: d.Category, ID: d.AttributeID, Issuer: d.Issuer}
		return expressions.NewAttributeDesignator(fqn, d.Datatype, d.MustBePresent)
	case s != nil && d == nil:
		return expressions.NewAttributeSelector(s.Category, s.Path, s.Datatype, s.MustBePresent)
	}
	return nil, fmt.Errorf("match requires exactly one of designator or selector")
}

func (c *Compiler) compilePepActions(obligations, advice []models.PepActionDoc, scope map[string]string) ([]PepActionExpression, error) {
	out := make([]PepActionExpression, 0, len(obligations)+len(advice))
	add := func(docs []models.PepActionDoc, obligatory bool) error {
		for _, doc := range docs {
			fulfillOn, err := parseEffect(doc.FulfillOn)
			if err != nil {
				return fmt.Errorf("PEP action %q: %w", doc.ID, err)
			}
			pe := PepActionExpression{ID: doc.ID, Obligatory: obligatory, FulfillOn: fulfillOn}
			for _, ad := range doc.Assignments {
				expr, err := c.compileExpression(&ad.Expression, scope)
				if err != nil {
					return fmt.Errorf("PEP action %q assignment %q: %w", doc.ID, ad.AttributeID, err)
				}
				pe.Assignments = append(pe.Assignments, AssignmentExpression{
					AttributeID: ad.AttributeID,
					Category:    ad.Category,
					Issuer:      ad.Issuer,
					Expr:        expr,
				})
			}
			out = append(out, pe)
		}
		return nil
	}
	if err := add(obligations, true); err != nil {
		return nil, err
	}
	if err := add(advice, false); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Compiler) compileExpression(doc *models.ExpressionDoc, scope map[string]string) (expressions.Expression, error) {
	switch {
	case doc.Value != nil:
		v, err := values.FromString(doc.Value.Datatype, doc.Value.Value)
		if err != nil {
			return nil, err
		}
		return expressions.Constant{Value: v}, nil
	case doc.Designator != nil || doc.Selector != nil:
		return c.compileBagSource(doc.Designator, doc.Selector)
	case doc.VariableRef != "":
		returnType, ok := scope[doc.VariableRef]
		if !ok {
			return nil, fmt.Errorf("reference to undefined variable %q", doc.VariableRef)
		}
		return expressions.NewVariableReference(doc.VariableRef, returnType), nil
	case doc.Function != "":
		fn, ok := c.fns.Get(doc.Function)
		if !ok {
			return nil, fmt.Errorf("unknown function %s", doc.Function)
		}
		return expressions.FunctionRef{Fn: fn}, nil
	case doc.Apply != nil:
		fn, ok := c.fns.Get(doc.Apply.FunctionID)
		if !ok {
			return nil, fmt.Errorf("unknown function %s", doc.Apply.FunctionID)
		}
		args := make([]expressions.Expression, 0, len(doc.Apply.Args))
		for i := range doc.Apply.Args {
			arg, err := c.compileExpression(&doc.Apply.Args[i], scope)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return expressions.Apply(fn, args)
	}
	return nil, fmt.Errorf("expression must hold exactly one variant")
}

func parseEffect(s string) (Decision, error) {
	switch s {
	case constants.EffectPermit:
		return Permit, nil
	case constants.EffectDeny:
		return Deny, nil
	}
	return NotApplicable, fmt.Errorf("invalid effect %q", s)
}
