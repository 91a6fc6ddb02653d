package functions

import (
	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

// setFunctions builds the per-datatype set family over bags: intersection,
// union, at-least-one-member-of, subset and set-equals.
func setFunctions() []expressions.Function {
	var fns []expressions.Function
	for _, dt := range datatypeTable {
		dt := dt
		bagT := values.BagDatatypeID(dt.id)

		fns = append(fns,
			newFO(dt.ns+dt.short+"-intersection", bagT, []string{bagT, bagT},
				func(args []values.Value) (values.Value, error) {
					a := args[0].(*values.Bag)
					b := args[1].(*values.Bag)
					var out []values.Value
					for _, e := range a.Elements() {
						if b.Contains(e) && !containsValue(out, e) {
							out = append(out, e)
						}
					}
					return mustBag(dt.id, out)
				}),
			newFO(dt.ns+dt.short+"-union", bagT, []string{bagT, bagT},
				func(args []values.Value) (values.Value, error) {
					var out []values.Value
					for _, bag := range args {
						for _, e := range bag.(*values.Bag).Elements() {
							if !containsValue(out, e) {
								out = append(out, e)
							}
						}
					}
					return mustBag(dt.id, out)
				}),
			newFO(dt.ns+dt.short+"-at-least-one-member-of", constants.DatatypeBoolean, []string{bagT, bagT},
				func(args []values.Value) (values.Value, error) {
					b := args[1].(*values.Bag)
					for _, e := range args[0].(*values.Bag).Elements() {
						if b.Contains(e) {
							return values.Boolean(true), nil
						}
					}
					return values.Boolean(false), nil
				}),
			newFO(dt.ns+dt.short+"-subset", constants.DatatypeBoolean, []string{bagT, bagT},
				func(args []values.Value) (values.Value, error) {
					b := args[1].(*values.Bag)
					for _, e := range args[0].(*values.Bag).Elements() {
						if !b.Contains(e) {
							return values.Boolean(false), nil
						}
					}
					return values.Boolean(true), nil
				}),
			newFO(dt.ns+dt.short+"-set-equals", constants.DatatypeBoolean, []string{bagT, bagT},
				func(args []values.Value) (values.Value, error) {
					a := args[0].(*values.Bag)
					b := args[1].(*values.Bag)
					return values.Boolean(subsetOf(a, b) && subsetOf(b, a)), nil
				}),
		)
	}
	return fns
}

func subsetOf(a, b *values.Bag) bool {
	for _, e := range a.Elements() {
		if !b.Contains(e) {
			return false
		}
	}
	return true
}

func containsValue(elems []values.Value, v values.Value) bool {
	for _, e := range elems {
		if e.Equal(v) {
			return true
		}
	}
	return false
}

func mustBag(elementType string, elems []values.Value) (values.Value, error) {
	bag, err := values.NewBag(elementType, elems...)
	if err != nil {
		return nil, status.Wrap(err)
	}
	return bag, nil
}
