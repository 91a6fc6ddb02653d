package models

// PolicyDocument is the typed policy tree the engine compiles into
// evaluators. It is the JSON equivalent of the OASIS XACML 3.0 policy
// schema: exactly one of Policy or PolicySet is set.
type PolicyDocument struct {
	Policy    *PolicyDoc    `json:"policy,omitempty"`
	PolicySet *PolicySetDoc `json:"policy_set,omitempty"`
}

// PolicyDoc is a Policy: rules combined under one rule-combining algorithm.
type PolicyDoc struct {
	ID             string         `json:"id"`
	Version        string         `json:"version"`
	Description    string         `json:"description,omitempty"`
	Target         *TargetDoc     `json:"target,omitempty"`
	CombiningAlgID string         `json:"rule_combining_alg"`
	Variables      []VariableDoc  `json:"variables,omitempty"`
	Rules          []RuleDoc      `json:"rules"`
	Obligations    []PepActionDoc `json:"obligations,omitempty"`
	Advice         []PepActionDoc `json:"advice,omitempty"`
}

// PolicySetDoc is a PolicySet: policies, policy sets and references combined
// under one policy-combining algorithm.
type PolicySetDoc struct {
	ID             string           `json:"id"`
	Version        string           `json:"version"`
	Description    string           `json:"description,omitempty"`
	Target         *TargetDoc       `json:"target,omitempty"`
	CombiningAlgID string           `json:"policy_combining_alg"`
	Children       []PolicyChildDoc `json:"children"`
	Obligations    []PepActionDoc   `json:"obligations,omitempty"`
	Advice         []PepActionDoc   `json:"advice,omitempty"`
}

// PolicyChildDoc is one child of a policy set; exactly one field is set.
type PolicyChildDoc struct {
	Policy       *PolicyDoc    `json:"policy,omitempty"`
	PolicySet    *PolicySetDoc `json:"policy_set,omitempty"`
	PolicyRef    *PolicyRefDoc `json:"policy_ref,omitempty"`
	PolicySetRef *PolicyRefDoc `json:"policy_set_ref,omitempty"`
}

// PolicyRefDoc is a reference to a policy by id and version constraints.
type PolicyRefDoc struct {
	ID              string `json:"id"`
	Version         string `json:"version,omitempty"`
	EarliestVersion string `json:"earliest_version,omitempty"`
	LatestVersion   string `json:"latest_version,omitempty"`
}

// RuleDoc is a rule: effect plus optional target, condition and PEP actions.
type RuleDoc struct {
	ID          string         `json:"id"`
	Effect      string         `json:"effect"`
	Description string         `json:"description,omitempty"`
	Target      *TargetDoc     `json:"target,omitempty"`
	Condition   *ExpressionDoc `json:"condition,omitempty"`
	Obligations []PepActionDoc `json:"obligations,omitempty"`
	Advice      []PepActionDoc `json:"advice,omitempty"`
}

// TargetDoc is a conjunction of AnyOf groups.
type TargetDoc struct {
	AnyOf []AnyOfDoc `json:"any_of"`
}

// AnyOfDoc is a disjunction of AllOf groups.
type AnyOfDoc struct {
	AllOf []AllOfDoc `json:"all_of"`
}

// AllOfDoc is a conjunction of matches.
type AllOfDoc struct {
	Matches []MatchDoc `json:"match"`
}

// MatchDoc applies a match function to a literal and a designator or
// selector; exactly one of Designator/Selector is set.
type MatchDoc struct {
	MatchID    string            `json:"match_id"`
	Value      AttributeValueDoc `json:"value"`
	Designator *DesignatorDoc    `json:"designator,omitempty"`
	Selector   *SelectorDoc      `json:"selector,omitempty"`
}

// AttributeValueDoc is a literal attribute value in lexical form.
type AttributeValueDoc struct {
	Datatype string `json:"type"`
	Value    string `json:"value"`
}

// DesignatorDoc names a request attribute bag.
type DesignatorDoc struct {
	Category      string `json:"category"`
	AttributeID   string `json:"attribute_id"`
	Issuer        string `json:"issuer,omitempty"`
	Datatype      string `json:"type"`
	MustBePresent bool   `json:"must_be_present,omitempty"`
}

// SelectorDoc selects from a category's content by XPath.
type SelectorDoc struct {
	Category      string `json:"category"`
	Path          string `json:"path"`
	Datatype      string `json:"type"`
	MustBePresent bool   `json:"must_be_present,omitempty"`
}

// ExpressionDoc is one expression node; exactly one field is set. Function
// is a bare function reference, valid only as a higher-order argument.
type ExpressionDoc struct {
	Value       *AttributeValueDoc `json:"value,omitempty"`
	Designator  *DesignatorDoc     `json:"designator,omitempty"`
	Selector    *SelectorDoc       `json:"selector,omitempty"`
	VariableRef string             `json:"variable_ref,omitempty"`
	Apply       *ApplyDoc          `json:"apply,omitempty"`
	Function    string             `json:"function,omitempty"`
}

// ApplyDoc is a function application.
type ApplyDoc struct {
	FunctionID string          `json:"function_id"`
	Args       []ExpressionDoc `json:"args"`
}

// VariableDoc is a policy-scoped variable definition.
type VariableDoc struct {
	ID         string        `json:"id"`
	Expression ExpressionDoc `json:"expression"`
}

// PepActionDoc declares an obligation or advice with its assignments.
type PepActionDoc struct {
	ID          string          `json:"id"`
	FulfillOn   string          `json:"fulfill_on"`
	Assignments []AssignmentDoc `json:"assignments,omitempty"`
}

// AssignmentDoc is one attribute assignment of a PEP action.
type AssignmentDoc struct {
	AttributeID string        `json:"attribute_id"`
	Category    string        `json:"category,omitempty"`
	Issuer      string        `json:"issuer,omitempty"`
	Expression  ExpressionDoc `json:"expression"`
}
