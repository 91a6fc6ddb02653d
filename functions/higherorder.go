package functions

import (
	"fmt"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/request"
	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

type higherOrderKind int

const (
	hoAnyOf higherOrderKind = iota
	hoAllOf
	hoAnyOfAny
	hoAllOfAny
	hoAnyOfAll
	hoAllOfAll
	hoMap
)

// higherOrder implements the XACML higher-order bag functions. The first
// argument is always a function reference; the sub-function must return
// boolean except under map.
type higherOrder struct {
	id   string
	kind higherOrderKind
}

func (h *higherOrder) ID() string { return h.id }
func (h *higherOrder) Pure() bool { return true }

func (h *higherOrder) NewCall(args []expressions.Expression) (expressions.Expression, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("function %s requires a sub-function and at least one argument", h.id)
	}
	ref, ok := args[0].(expressions.FunctionRef)
	if !ok {
		return nil, fmt.Errorf("function %s: first argument must be a function reference", h.id)
	}
	sub := ref.Fn
	rest := args[1:]

	bagCount := 0
	elemTypes := make([]string, len(rest))
	for i, arg := range rest {
		t := arg.ReturnType()
		if values.IsBagDatatype(t) {
			bagCount++
		}
		elemTypes[i] = values.ElementDatatypeID(t)
	}

	switch h.kind {
	case hoAnyOf, hoAllOf, hoMap:
		if bagCount != 1 {
			return nil, fmt.Errorf("function %s requires exactly one bag argument, got %d", h.id, bagCount)
		}
	case hoAllOfAny, hoAnyOfAll, hoAllOfAll:
		if len(rest) != 2 || bagCount != 2 {
			return nil, fmt.Errorf("function %s requires exactly two bag arguments", h.id)
		}
	case hoAnyOfAny:
		// Any mix of bags and primitives.
	}

	// Probe the sub-function binding over primitive slots once at load so a
	// signature mismatch fails initialization, not evaluation.
	probe, err := bindSub(sub, elemTypes)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", h.id, err)
	}
	subRet := probe.ReturnType()
	ret := constants.DatatypeBoolean
	if h.kind == hoMap {
		if values.IsBagDatatype(subRet) {
			return nil, fmt.Errorf("function %s: sub-function %s must return a primitive", h.id, sub.ID())
		}
		ret = values.BagDatatypeID(subRet)
	} else if subRet != constants.DatatypeBoolean {
		return nil, fmt.Errorf("function %s: sub-function %s must return boolean, returns %s", h.id, sub.ID(), subRet)
	}

	return &higherOrderCall{fn: h, sub: sub, args: rest, elemTypes: elemTypes, ret: ret}, nil
}

func bindSub(sub expressions.Function, elemTypes []string) (expressions.Expression, error) {
	slots := make([]expressions.Expression, len(elemTypes))
	for i, t := range elemTypes {
		slots[i] = &valueExpr{datatype: t}
	}
	return sub.NewCall(slots)
}

type higherOrderCall struct {
	fn        *higherOrder
	sub       expressions.Function
	args      []expressions.Expression
	elemTypes []string
	ret       string
}

func (c *higherOrderCall) ReturnType() string { return c.ret }

// subInvoker binds the sub-function over mutable value slots for the
// duration of one evaluation. Slots are rebound per evaluation so shared
// policy trees stay immutable across concurrent requests.
type subInvoker struct {
	slots []*valueExpr
	call  expressions.Expression
}

func (c *higherOrderCall) newInvoker() (*subInvoker, error) {
	slots := make([]*valueExpr, len(c.elemTypes))
	exprs := make([]expressions.Expression, len(c.elemTypes))
	for i, t := range c.elemTypes {
		slots[i] = &valueExpr{datatype: t}
		exprs[i] = slots[i]
	}
	call, err := c.sub.NewCall(exprs)
	if err != nil {
		return nil, status.Wrap(err)
	}
	return &subInvoker{slots: slots, call: call}, nil
}

func (s *subInvoker) invoke(ctx *request.Context, vals []values.Value) (values.Value, error) {
	for i, v := range vals {
		s.slots[i].v = v
	}
	return s.call.Evaluate(ctx)
}

func (s *subInvoker) invokeBool(ctx *request.Context, vals []values.Value) (bool, error) {
	v, err := s.invoke(ctx, vals)
	if err != nil {
		return false, err
	}
	return bool(v.(values.Boolean)), nil
}

// Evaluate evaluates each argument expression exactly once, then enumerates
// per the function's quantifier shape. Indeterminate from the sub-function
// propagates immediately.
func (c *higherOrderCall) Evaluate(ctx *request.Context) (values.Value, error) {
	argVals := make([]values.Value, len(c.args))
	for i, arg := range c.args {
		v, err := arg.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		argVals[i] = v
	}
	inv, err := c.newInvoker()
	if err != nil {
		return nil, err
	}

	switch c.fn.kind {
	case hoAnyOf, hoAllOf:
		return c.evaluateQuantified(ctx, inv, argVals, c.fn.kind == hoAnyOf)
	case hoMap:
		return c.evaluateMap(ctx, inv, argVals)
	case hoAnyOfAny:
		return c.evaluateAnyOfAny(ctx, inv, argVals)
	}
	return c.evaluateTwoBags(ctx, inv, argVals)
}

// evaluateQuantified handles any-of (∃) and all-of (∀) over the single bag
// argument. An empty bag yields the quantifier identity: false for ∃, true
// for ∀.
func (c *higherOrderCall) evaluateQuantified(ctx *request.Context, inv *subInvoker, argVals []values.Value, existential bool) (values.Value, error) {
	bagPos, bag := singleBag(argVals)
	tuple := make([]values.Value, len(argVals))
	copy(tuple, argVals)

	for _, e := range bag.Elements() {
		tuple[bagPos] = e
		ok, err := inv.invokeBool(ctx, tuple)
		if err != nil {
			return nil, err
		}
		if ok == existential {
			return values.Boolean(existential), nil
		}
	}
	return values.Boolean(!existential), nil
}

func (c *higherOrderCall) evaluateMap(ctx *request.Context, inv *subInvoker, argVals []values.Value) (values.Value, error) {
	bagPos, bag := singleBag(argVals)
	tuple := make([]values.Value, len(argVals))
	copy(tuple, argVals)

	out := make([]values.Value, 0, bag.Size())
	for _, e := range bag.Elements() {
		tuple[bagPos] = e
		v, err := inv.invoke(ctx, tuple)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	bagOut, err := values.NewBag(values.ElementDatatypeID(c.ret), out...)
	if err != nil {
		return nil, status.Wrap(err)
	}
	return bagOut, nil
}

// evaluateAnyOfAny enumerates the full Cartesian product of the argument
// value lists depth-first, short-circuiting on the first true tuple.
func (c *higherOrderCall) evaluateAnyOfAny(ctx *request.Context, inv *subInvoker, argVals []values.Value) (values.Value, error) {
	lists := make([][]values.Value, len(argVals))
	product := 1
	for i, v := range argVals {
		if bag, ok := v.(*values.Bag); ok {
			lists[i] = bag.Elements()
		} else {
			lists[i] = []values.Value{v}
		}
		product *= len(lists[i])
		if max := maxProduct(ctx); max > 0 && product > max {
			return nil, status.NewProcessingError("%s: argument product exceeds limit %d", c.fn.id, max)
		}
	}
	if product == 0 {
		return values.Boolean(false), nil
	}

	tuple := make([]values.Value, len(lists))
	var walk func(depth int) (bool, error)
	walk = func(depth int) (bool, error) {
		if depth == len(lists) {
			return inv.invokeBool(ctx, tuple)
		}
		for _, v := range lists[depth] {
			tuple[depth] = v
			ok, err := walk(depth + 1)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
	ok, err := walk(0)
	if err != nil {
		return nil, err
	}
	return values.Boolean(ok), nil
}

// evaluateTwoBags handles the two-bag quantifier shapes:
//
//	all-of-all: ∀ x∈b0 ∀ y∈b1 : f(x,y)
//	all-of-any: ∀ x∈b0 ∃ y∈b1 : f(x,y)
//	any-of-all: ∀ y∈b1 ∃ x∈b0 : f(x,y)
func (c *higherOrderCall) evaluateTwoBags(ctx *request.Context, inv *subInvoker, argVals []values.Value) (values.Value, error) {
	b0 := argVals[0].(*values.Bag)
	b1 := argVals[1].(*values.Bag)
	if max := maxProduct(ctx); max > 0 && b0.Size()*b1.Size() > max {
		return nil, status.NewProcessingError("%s: argument product exceeds limit %d", c.fn.id, max)
	}

	exists := func(outer values.Value, elems []values.Value, outerFirst bool) (bool, error) {
		for _, inner := range elems {
			var ok bool
			var err error
			if outerFirst {
				ok, err = inv.invokeBool(ctx, []values.Value{outer, inner})
			} else {
				ok, err = inv.invokeBool(ctx, []values.Value{inner, outer})
			}
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	}

	switch c.fn.kind {
	case hoAllOfAll:
		for _, x := range b0.Elements() {
			for _, y := range b1.Elements() {
				ok, err := inv.invokeBool(ctx, []values.Value{x, y})
				if err != nil {
					return nil, err
				}
				if !ok {
					return values.Boolean(false), nil
				}
			}
		}
		return values.Boolean(true), nil
	case hoAllOfAny:
		for _, x := range b0.Elements() {
			ok, err := exists(x, b1.Elements(), true)
			if err != nil {
				return nil, err
			}
			if !ok {
				return values.Boolean(false), nil
			}
		}
		return values.Boolean(true), nil
	}
	// any-of-all
	for _, y := range b1.Elements() {
		ok, err := exists(y, b0.Elements(), false)
		if err != nil {
			return nil, err
		}
		if !ok {
			return values.Boolean(false), nil
		}
	}
	return values.Boolean(true), nil
}

func maxProduct(ctx *request.Context) int {
	if ctx == nil {
		return 0
	}
	return ctx.MaxProductSize()
}

func singleBag(argVals []values.Value) (int, *values.Bag) {
	for i, v := range argVals {
		if bag, ok := v.(*values.Bag); ok {
			return i, bag
		}
	}
	return -1, nil
}

func higherOrderFunctions() []expressions.Function {
	return []expressions.Function{
		&higherOrder{id: constants.FunctionAnyOf, kind: hoAnyOf},
		&higherOrder{id: constants.FunctionAllOf, kind: hoAllOf},
		&higherOrder{id: constants.FunctionAnyOfAny, kind: hoAnyOfAny},
		&higherOrder{id: constants.FunctionAllOfAny, kind: hoAllOfAny},
		&higherOrder{id: constants.FunctionAnyOfAll, kind: hoAnyOfAll},
		&higherOrder{id: constants.FunctionAllOfAll, kind: hoAllOfAll},
		&higherOrder{id: constants.FunctionMap, kind: hoMap},
	}
}
