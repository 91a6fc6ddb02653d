package models

import (
	"github.com/dtc-forks/authzforce-core/request"
)

// AuthzRequest is the wire form of a decision request.
type AuthzRequest struct {
	RequestID          string        `json:"request_id,omitempty"`
	ReturnPolicyIDList bool          `json:"return_policy_id_list,omitempty"`
	Categories         []CategoryDoc `json:"categories"`
}

// CategoryDoc is one Attributes element of a request.
type CategoryDoc struct {
	Category   string         `json:"category"`
	Attributes []AttributeDoc `json:"attributes,omitempty"`
	Content    string         `json:"content,omitempty"`
}

// AttributeDoc is one named attribute with its values in lexical form.
type AttributeDoc struct {
	ID       string   `json:"id"`
	Issuer   string   `json:"issuer,omitempty"`
	Datatype string   `json:"type"`
	Values   []string `json:"values"`
}

// RawCategories converts the wire request into the preprocessor's input.
func (r *AuthzRequest) RawCategories() []request.RawCategory {
	cats := make([]request.RawCategory, 0, len(r.Categories))
	for _, c := range r.Categories {
		raw := request.RawCategory{Category: c.Category}
		if c.Content != "" {
			raw.Content = c.Content
		}
		for _, a := range c.Attributes {
			raw.Attributes = append(raw.Attributes, request.RawAttribute{
				ID:       a.ID,
				Issuer:   a.Issuer,
				Datatype: a.Datatype,
				Values:   a.Values,
			})
		}
		cats = append(cats, raw)
	}
	return cats
}

// AuthzResponse is the wire form of a decision result.
type AuthzResponse struct {
	RequestID          string                `json:"request_id,omitempty"`
	Decision           string                `json:"decision"`
	Status             *StatusDoc            `json:"status,omitempty"`
	Obligations        []PepActionResultDoc  `json:"obligations,omitempty"`
	Advice             []PepActionResultDoc  `json:"advice,omitempty"`
	ApplicablePolicies []PolicyIdentifierDoc `json:"applicable_policies,omitempty"`
	EvaluationUs       int64                 `json:"evaluation_us"`
}

// StatusDoc reports the status code of an Indeterminate decision.
type StatusDoc struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// PepActionResultDoc is one evaluated obligation or advice on the wire.
type PepActionResultDoc struct {
	ID          string                `json:"id"`
	Assignments []AssignmentResultDoc `json:"assignments,omitempty"`
}

// AssignmentResultDoc is one evaluated attribute assignment.
type AssignmentResultDoc struct {
	AttributeID string `json:"attribute_id"`
	Category    string `json:"category,omitempty"`
	Issuer      string `json:"issuer,omitempty"`
	Datatype    string `json:"type"`
	Value       string `json:"value"`
}

// PolicyIdentifierDoc names one applicable policy on the wire.
type PolicyIdentifierDoc struct {
	ID        string `json:"id"`
	Version   string `json:"version"`
	PolicySet bool   `json:"policy_set,omitempty"`
}
