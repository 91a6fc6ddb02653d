package evaluator

import (
	"context"
	"time"

	"github.com/dtc-forks/authzforce-core/request"
)

// PDPConfig carries the evaluation limits and hooks of a PDP instance.
type PDPConfig struct {
	// StrictAttributeIssuer enables strict issuer matching and duplicate
	// attribute rejection in the request preprocessor.
	StrictAttributeIssuer bool
	// MaxBagSize bounds any single attribute bag (0 = unbounded).
	MaxBagSize int
	// MaxProductSize bounds higher-order Cartesian enumeration
	// (0 = unbounded).
	MaxProductSize int
	// XPath handles attribute selectors; nil makes selectors fail with a
	// processing error.
	XPath request.XPathEvaluator
	// Clock supplies the evaluation instant; nil means time.Now.
	Clock func() time.Time
}

// DefaultPDPConfig returns the default PDP configuration.
func DefaultPDPConfig() *PDPConfig {
	return &PDPConfig{
		MaxBagSize:     1000,
		MaxProductSize: 100000,
	}
}

// PDP is the policy decision point: a preprocessor and a compiled root
// policy. It is immutable and safe for concurrent use; each evaluation
// builds its own context.
type PDP struct {
	pre            *request.Preprocessor
	root           *Policy
	maxProductSize int
	xpath          request.XPathEvaluator
	clock          func() time.Time
}

// NewPDP creates a PDP over a compiled root policy.
func NewPDP(root *Policy, cfg *PDPConfig) *PDP {
	if cfg == nil {
		cfg = DefaultPDPConfig()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &PDP{
		pre:            request.NewPreprocessor(cfg.StrictAttributeIssuer, cfg.MaxBagSize),
		root:           root,
		maxProductSize: cfg.MaxProductSize,
		xpath:          cfg.XPath,
		clock:          clock,
	}
}

// Root returns the compiled root policy.
func (p *PDP) Root() *Policy { return p.root }

// Evaluate preprocesses a parsed request and walks the root policy. A
// preprocessing failure yields Indeterminate with the failure's status code.
func (p *PDP) Evaluate(ctx context.Context, cats []request.RawCategory, returnPolicyIDs bool) *DecisionResult {
	now := p.clock()
	req, err := p.pre.Process(cats, now)
	if err != nil {
		return newDecisionResult(ChildResult{Decision: indeterminate(FlavorDP, err)})
	}
	req.ReturnPolicyIDList = returnPolicyIDs

	evalCtx := request.NewContext(ctx, req, now, p.maxProductSize, p.xpath)
	return newDecisionResult(p.root.Evaluate(evalCtx, returnPolicyIDs))
}
