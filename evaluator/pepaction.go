package evaluator

import (
	"github.com/dtc-forks/authzforce-core/expressions"
	"github.com/dtc-forks/authzforce-core/request"
)

// PepActionExpression is an unevaluated obligation or advice declaration:
// the action id, whether it is obligatory, the decision it applies to and
// the attribute assignment expressions.
type PepActionExpression struct {
	ID          string
	Obligatory  bool
	FulfillOn   Decision
	Assignments []AssignmentExpression
}

// AssignmentExpression is one unevaluated attribute assignment.
type AssignmentExpression struct {
	AttributeID string
	Category    string
	Issuer      string
	Expr        expressions.Expression
}

// evaluatePepActions evaluates the actions applicable to the given decision.
// An assignment evaluation failure aborts with the underlying error; the
// caller converts it to an Indeterminate of the decision's flavor.
func evaluatePepActions(ctx *request.Context, exprs []PepActionExpression, decision Decision) ([]PepAction, error) {
	var out []PepAction
	for _, pe := range exprs {
		if pe.FulfillOn != decision {
			continue
		}
		action := PepAction{ID: pe.ID, Obligatory: pe.Obligatory}
		for _, ae := range pe.Assignments {
			v, err := ae.Expr.Evaluate(ctx)
			if err != nil {
				return nil, err
			}
			action.Assignments = append(action.Assignments, AttributeAssignment{
				AttributeID: ae.AttributeID,
				Category:    ae.Category,
				Issuer:      ae.Issuer,
				Value:       v,
			})
		}
		out = append(out, action)
	}
	return out, nil
}
