package functions

import (
	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

// bagFunctions builds the per-datatype bag family: <type>-one-and-only,
// <type>-bag-size, <type>-is-in and the <type>-bag constructor.
func bagFunctions() []expressions.Function {
	var fns []expressions.Function
	for _, dt := range datatypeTable {
		dt := dt
		bagT := values.BagDatatypeID(dt.id)

		fns = append(fns,
			newFO(dt.ns+dt.short+"-one-and-only", dt.id, []string{bagT},
				func(args []values.Value) (values.Value, error) {
					v, err := args[0].(*values.Bag).Single()
					if err != nil {
						return nil, status.NewProcessingError("%s-one-and-only: %v", dt.short, err)
					}
					return v, nil
				}),
			newFO(dt.ns+dt.short+"-bag-size", constants.DatatypeInteger, []string{bagT},
				func(args []values.Value) (values.Value, error) {
					return values.Integer(args[0].(*values.Bag).Size()), nil
				}),
			newFO(dt.ns+dt.short+"-is-in", constants.DatatypeBoolean, []string{dt.id, bagT},
				func(args []values.Value) (values.Value, error) {
					return values.Boolean(args[1].(*values.Bag).Contains(args[0])), nil
				}),
			newFOVariadic(dt.ns+dt.short+"-bag", bagT, []string{dt.id}, 0,
				func(args []values.Value) (values.Value, error) {
					bag, err := values.NewBag(dt.id, args...)
					if err != nil {
						return nil, status.Wrap(err)
					}
					return bag, nil
				}),
		)
	}
	return fns
}
