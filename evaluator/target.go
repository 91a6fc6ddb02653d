package evaluator

import (
	"fmt"

	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/request"
	"github.com/dtc-forks/authzforce-core/values"
)

// matchResult is the three-valued outcome of target matching.
type matchResult int

const (
	noMatch matchResult = iota
	match
	matchIndeterminate
)

// Match applies a match function to a literal value and each element of an
// attribute bag; it matches when any element matches.
type Match struct {
	fn      expressions.Function
	literal values.Value
	// source yields the bag matched against: a designator or selector.
	source   expressions.Expression
	elemType string
}

// NewMatch builds a target match. source must evaluate to a bag; the match
// function is probed at construction so signature mismatches fail at load.
func NewMatch(fn expressions.Function, literal values.Value, source expressions.Expression) (*Match, error) {
	srcType := source.ReturnType()
	if !values.IsBagDatatype(srcType) {
		return nil, fmt.Errorf("match on %s: source must be an attribute designator or selector", fn.ID())
	}
	m := &Match{
		fn:       fn,
		literal:  literal,
		source:   source,
		elemType: values.ElementDatatypeID(srcType),
	}
	if _, err := m.bind(); err != nil {
		return nil, fmt.Errorf("match on %s: %w", fn.ID(), err)
	}
	return m, nil
}

type matchSlot struct {
	datatype string
	v        values.Value
}

func (s *matchSlot) ReturnType() string                              { return s.datatype }
func (s *matchSlot) Evaluate(*request.Context) (values.Value, error) { return s.v, nil }

func (m *Match) bind() (*matchSlot, error) {
	slot := &matchSlot{datatype: m.elemType}
	if _, err := m.fn.NewCall([]expressions.Expression{expressions.Constant{Value: m.literal}, slot}); err != nil {
		return nil, err
	}
	return slot, nil
}

func (m *Match) evaluate(ctx *request.Context) (matchResult, error) {
	bagValue, err := m.source.Evaluate(ctx)
	if err != nil {
		return matchIndeterminate, err
	}
	bag := bagValue.(*values.Bag)

	// Rebind per evaluation: the slot is mutable and the Match is shared by
	// concurrent requests.
	slot := &matchSlot{datatype: m.elemType}
	call, err := m.fn.NewCall([]expressions.Expression{expressions.Constant{Value: m.literal}, slot})
	if err != nil {
		return matchIndeterminate, err
	}

	for _, e := range bag.Elements() {
		slot.v = e
		v, err := call.Evaluate(ctx)
		if err != nil {
			return matchIndeterminate, err
		}
		if bool(v.(values.Boolean)) {
			return match, nil
		}
	}
	return noMatch, nil
}

// Target is the structural applicability test of a rule, policy or policy
// set: a conjunction of AnyOf groups, each a disjunction of AllOf groups,
// each a conjunction of Matches. A nil Target matches everything.
type Target struct {
	anyOfs []anyOf
}

type anyOf struct {
	allOfs []allOf
}

type allOf struct {
	matches []*Match
}

// NewTarget assembles a target from its AnyOf/AllOf/Match structure.
func NewTarget(anyOfs [][][]*Match) *Target {
	t := &Target{}
	for _, ao := range anyOfs {
		var a anyOf
		for _, all := range ao {
			a.allOfs = append(a.allOfs, allOf{matches: all})
		}
		t.anyOfs = append(t.anyOfs, a)
	}
	return t
}

// evaluate runs the three-valued conjunction/disjunction of XACML target
// matching. NoMatch dominates regardless of order; Indeterminate surfaces
// only when no AnyOf group is determinately unmatched. The returned error is
// the first Indeterminate cause.
func (t *Target) evaluate(ctx *request.Context) (matchResult, error) {
	if t == nil {
		return match, nil
	}
	var indetErr error
	seenIndeterminate := false
	for _, ao := range t.anyOfs {
		r, err := ao.evaluate(ctx)
		if r == noMatch {
			return noMatch, nil
		}
		if r == matchIndeterminate && !seenIndeterminate {
			seenIndeterminate = true
			indetErr = err
		}
	}
	if seenIndeterminate {
		return matchIndeterminate, indetErr
	}
	return match, nil
}

func (a *anyOf) evaluate(ctx *request.Context) (matchResult, error) {
	var indetErr error
	seenIndeterminate := false
	for _, all := range a.allOfs {
		r, err := all.evaluate(ctx)
		if r == match {
			return match, nil
		}
		if r == matchIndeterminate && !seenIndeterminate {
			seenIndeterminate = true
			indetErr = err
		}
	}
	if seenIndeterminate {
		return matchIndeterminate, indetErr
	}
	return noMatch, nil
}

func (a *allOf) evaluate(ctx *request.Context) (matchResult, error) {
	var indetErr error
	seenIndeterminate := false
	for _, m := range a.matches {
		r, err := m.evaluate(ctx)
		if r == noMatch {
			return noMatch, nil
		}
		if r == matchIndeterminate && !seenIndeterminate {
			seenIndeterminate = true
			indetErr = err
		}
	}
	if seenIndeterminate {
		return matchIndeterminate, indetErr
	}
	return match, nil
}
