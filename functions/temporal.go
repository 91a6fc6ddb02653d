package functions

import (
	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/values"
)

// temporalFunctions builds duration arithmetic on dateTime and date values.
func temporalFunctions() []expressions.Function {
	dtT := constants.DatatypeDateTime
	dT := constants.DatatypeDate
	dtdT := constants.DatatypeDayTimeDuration
	ymdT := constants.DatatypeYearMonthDuration

	return []expressions.Function{
		newFO(constants.Function30+"dateTime-add-dayTimeDuration", dtT, []string{dtT, dtdT},
			func(args []values.Value) (values.Value, error) {
				return args[0].(values.DateTime).Add(args[1].(values.DayTimeDuration).Duration()), nil
			}),
		newFO(constants.Function30+"dateTime-subtract-dayTimeDuration", dtT, []string{dtT, dtdT},
			func(args []values.Value) (values.Value, error) {
				return args[0].(values.DateTime).Add(-args[1].(values.DayTimeDuration).Duration()), nil
			}),
		newFO(constants.Function30+"dateTime-add-yearMonthDuration", dtT, []string{dtT, ymdT},
			func(args []values.Value) (values.Value, error) {
				return args[0].(values.DateTime).AddMonths(args[1].(values.YearMonthDuration).Months()), nil
			}),
		newFO(constants.Function30+"dateTime-subtract-yearMonthDuration", dtT, []string{dtT, ymdT},
			func(args []values.Value) (values.Value, error) {
				return args[0].(values.DateTime).AddMonths(-args[1].(values.YearMonthDuration).Months()), nil
			}),
		newFO(constants.Function30+"date-add-yearMonthDuration", dT, []string{dT, ymdT},
			func(args []values.Value) (values.Value, error) {
				return args[0].(values.Date).AddMonths(args[1].(values.YearMonthDuration).Months()), nil
			}),
		newFO(constants.Function30+"date-subtract-yearMonthDuration", dT, []string{dT, ymdT},
			func(args []values.Value) (values.Value, error) {
				return args[0].(values.Date).AddMonths(-args[1].(values.YearMonthDuration).Months()), nil
			}),
	}
}
