package expressions

import (
	"github.com/dtc-forks/authzforce-core/request"
	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

// Constant is a literal attribute value.
type Constant struct {
	Value values.Value
}

func (c Constant) Evaluate(*request.Context) (values.Value, error) { return c.Value, nil }
func (c Constant) ReturnType() string                              { return c.Value.DatatypeID() }

// AttributeDesignator reads an attribute bag from the request by
// fully-qualified name and datatype.
type AttributeDesignator struct {
	fqn           request.FQN
	datatype      string
	mustBePresent bool
}

// NewAttributeDesignator builds a designator for (fqn, datatype). datatype is
// the primitive element type; the designator evaluates to a bag of it.
func NewAttributeDesignator(fqn request.FQN, datatype string, mustBePresent bool) (*AttributeDesignator, error) {
	if !values.KnownDatatype(datatype) {
		return nil, status.NewSyntaxError("attribute designator %s: unknown datatype %s", fqn, datatype)
	}
	return &AttributeDesignator{fqn: fqn, datatype: datatype, mustBePresent: mustBePresent}, nil
}

func (d *AttributeDesignator) ReturnType() string { return values.BagDatatypeID(d.datatype) }

func (d *AttributeDesignator) Evaluate(ctx *request.Context) (values.Value, error) {
	if ctx == nil {
		return nil, status.NewProcessingError("attribute designator %s requires an evaluation context", d.fqn)
	}
	bag := ctx.AttributeBag(d.fqn, d.datatype)
	if bag == nil || bag.Size() == 0 {
		if d.mustBePresent {
			return nil, status.NewMissingAttribute(d.fqn.String())
		}
		return values.EmptyBag(d.datatype), nil
	}
	return bag, nil
}

// FQN returns the designator's fully-qualified attribute name.
func (d *AttributeDesignator) FQN() request.FQN { return d.fqn }

// AttributeSelector evaluates an XPath expression against a category's
// content node and converts the selection to a bag of the declared datatype.
type AttributeSelector struct {
	category      string
	path          string
	datatype      string
	mustBePresent bool
}

// NewAttributeSelector builds a selector over the given category content.
func NewAttributeSelector(category, path, datatype string, mustBePresent bool) (*AttributeSelector, error) {
	if !values.KnownDatatype(datatype) {
		return nil, status.NewSyntaxError("attribute selector %s: unknown datatype %s", path, datatype)
	}
	return &AttributeSelector{category: category, path: path, datatype: datatype, mustBePresent: mustBePresent}, nil
}

func (s *AttributeSelector) ReturnType() string { return values.BagDatatypeID(s.datatype) }

func (s *AttributeSelector) Evaluate(ctx *request.Context) (values.Value, error) {
	if ctx == nil {
		return nil, status.NewProcessingError("attribute selector %s requires an evaluation context", s.path)
	}
	bag, err := ctx.SelectXPath(s.category, s.path, s.datatype)
	if err != nil {
		return nil, err
	}
	if bag.Size() == 0 && s.mustBePresent {
		return nil, status.NewMissingAttribute(s.category + "#" + s.path)
	}
	return bag, nil
}

// VariableReference reads a policy-scoped variable from the context,
// evaluating and memoizing its definition on first use.
type VariableReference struct {
	id         string
	returnType string
}

// NewVariableReference builds a reference to a variable whose definition has
// the given return type.
func NewVariableReference(id, returnType string) *VariableReference {
	return &VariableReference{id: id, returnType: returnType}
}

func (r *VariableReference) ReturnType() string { return r.returnType }

func (r *VariableReference) Evaluate(ctx *request.Context) (values.Value, error) {
	if ctx == nil {
		return nil, status.NewProcessingError("variable %q requires an evaluation context", r.id)
	}
	return ctx.Variable(r.id)
}

// FunctionRef wraps a function used as an argument to a higher-order
// function. It is not evaluable on its own.
type FunctionRef struct {
	Fn Function
}

// FunctionDatatypeID marks the pseudo-datatype of function references.
const FunctionDatatypeID = "urn:oasis:names:tc:xacml:3.0:data-type:function"

func (FunctionRef) ReturnType() string { return FunctionDatatypeID }

func (f FunctionRef) Evaluate(*request.Context) (values.Value, error) {
	return nil, status.NewProcessingError("function reference %s is not evaluable", f.Fn.ID())
}
