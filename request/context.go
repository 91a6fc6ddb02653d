package request

import (
	"context"
	"time"

	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

// VariableEvaluator computes the value of a policy variable on demand.
type VariableEvaluator func(*Context) (values.Value, error)

// XPathEvaluator resolves an AttributeSelector path against a category's
// content node, returning the selected values converted to the datatype.
type XPathEvaluator interface {
	Evaluate(path string, content any, datatype string) ([]values.Value, error)
}

// Context is the per-request evaluation context: the frozen request, the
// evaluation clock, resource limits, and memoization tables for variables and
// selector results. A Context is used by a single goroutine and never shared
// across requests.
type Context struct {
	ctx context.Context
	req *IndividualDecisionRequest
	now time.Time

	maxProductSize int
	xpath          XPathEvaluator

	varDefs     map[string]VariableEvaluator
	varValues   map[string]values.Value
	varInFlight map[string]bool

	selectorCache map[string]*values.Bag
}

// NewContext creates an evaluation context for one request.
func NewContext(ctx context.Context, req *IndividualDecisionRequest, now time.Time, maxProductSize int, xpath XPathEvaluator) *Context {
	return &Context{
		ctx:            ctx,
		req:            req,
		now:            now,
		maxProductSize: maxProductSize,
		xpath:          xpath,
		varDefs:        make(map[string]VariableEvaluator),
		varValues:      make(map[string]values.Value),
		varInFlight:    make(map[string]bool),
		selectorCache:  make(map[string]*values.Bag),
	}
}

// Err reports a deadline or cancellation on the carrier context as a
// processing error, nil otherwise.
func (c *Context) Err() error {
	if c == nil || c.ctx == nil {
		return nil
	}
	if err := c.ctx.Err(); err != nil {
		return status.NewProcessingError("evaluation aborted: %v", err)
	}
	return nil
}

// Now returns the evaluation clock instant, fixed for the whole request.
func (c *Context) Now() time.Time { return c.now }

// MaxProductSize bounds higher-order Cartesian enumeration (0 = unbounded).
func (c *Context) MaxProductSize() int { return c.maxProductSize }

// AttributeBag resolves a designator lookup against the request. The same
// frozen bag instance is returned for every lookup of the same name within
// the request.
func (c *Context) AttributeBag(fqn FQN, datatype string) *values.Bag {
	return c.req.AttributeBag(fqn, datatype)
}

// Content returns the content node of a category, or nil.
func (c *Context) Content(category string) any {
	return c.req.Content(category)
}

// SelectXPath evaluates an attribute selector, memoizing per (category, path,
// datatype) for the duration of the request.
func (c *Context) SelectXPath(category, path, datatype string) (*values.Bag, error) {
	key := category + "\x00" + path + "\x00" + datatype
	if bag, ok := c.selectorCache[key]; ok {
		return bag, nil
	}
	if c.xpath == nil {
		return nil, status.NewProcessingError("no XPath evaluator configured")
	}
	elems, err := c.xpath.Evaluate(path, c.req.Content(category), datatype)
	if err != nil {
		return nil, status.Wrap(err)
	}
	bag, err := values.NewBag(datatype, elems...)
	if err != nil {
		return nil, status.Wrap(err)
	}
	c.selectorCache[key] = bag
	return bag, nil
}

// PushVariables registers the variable definitions of the policy being
// entered. Returns the ids to hand back to PopVariables on exit.
func (c *Context) PushVariables(defs map[string]VariableEvaluator) []string {
	ids := make([]string, 0, len(defs))
	for id, def := range defs {
		c.varDefs[id] = def
		ids = append(ids, id)
	}
	return ids
}

// PopVariables removes variable definitions and their memoized values when a
// policy scope is left.
func (c *Context) PopVariables(ids []string) {
	for _, id := range ids {
		delete(c.varDefs, id)
		delete(c.varValues, id)
		delete(c.varInFlight, id)
	}
}

// Variable evaluates a named variable, memoizing the result. A reference to
// an undefined or self-referential variable is a processing error.
func (c *Context) Variable(id string) (values.Value, error) {
	if v, ok := c.varValues[id]; ok {
		return v, nil
	}
	def, ok := c.varDefs[id]
	if !ok {
		return nil, status.NewProcessingError("undefined variable %q", id)
	}
	if c.varInFlight[id] {
		return nil, status.NewProcessingError("circular reference in variable %q", id)
	}
	c.varInFlight[id] = true
	v, err := def(c)
	c.varInFlight[id] = false
	if err != nil {
		return nil, err
	}
	c.varValues[id] = v
	return v, nil
}
