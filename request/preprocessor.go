package request

import (
	"time"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/status"
	"github.com/dtc-forks/authzforce-core/values"
)

// RawAttribute is one attribute of a parsed request category, values still in
// lexical form.
type RawAttribute struct {
	ID       string
	Issuer   string
	Datatype string
	Values   []string
}

// RawCategory is one Attributes element of a parsed request.
type RawCategory struct {
	Category   string
	Attributes []RawAttribute
	Content    any
}

type bagKey struct {
	fqn      FQN
	datatype string
}

// IndividualDecisionRequest is a preprocessed request: frozen attribute bags
// keyed by fully-qualified name and datatype, plus per-category content.
type IndividualDecisionRequest struct {
	bags    map[bagKey]*values.Bag
	lax     map[bagKey]*values.Bag
	content map[string]any
	strict  bool

	// ReturnPolicyIDList asks the PDP to report applicable policy ids.
	ReturnPolicyIDList bool
}

// AttributeBag returns the frozen bag for (fqn, datatype), or nil when the
// request carries no such attribute. A designator without issuer matches any
// issuer in lax mode and only the empty issuer in strict mode.
func (r *IndividualDecisionRequest) AttributeBag(fqn FQN, datatype string) *values.Bag {
	if fqn.Issuer == "" && !r.strict {
		return r.lax[bagKey{fqn: fqn, datatype: datatype}]
	}
	return r.bags[bagKey{fqn: fqn, datatype: datatype}]
}

// Content returns the XML content node attached to a category, or nil.
func (r *IndividualDecisionRequest) Content(category string) any {
	return r.content[category]
}

// Preprocessor validates parsed requests and freezes their attribute bags.
type Preprocessor struct {
	strict     bool
	maxBagSize int
}

// NewPreprocessor creates a request preprocessor. strict enables strict
// issuer matching and duplicate-attribute rejection; maxBagSize bounds the
// size of any single attribute bag (0 means unbounded).
func NewPreprocessor(strict bool, maxBagSize int) *Preprocessor {
	return &Preprocessor{strict: strict, maxBagSize: maxBagSize}
}

// Process turns a parsed request into an IndividualDecisionRequest. The
// current-dateTime, current-date and current-time environment attributes are
// injected from now when the request does not supply them.
func (p *Preprocessor) Process(cats []RawCategory, now time.Time) (*IndividualDecisionRequest, error) {
	req := &IndividualDecisionRequest{
		bags:    make(map[bagKey]*values.Bag),
		content: make(map[string]any),
		strict:  p.strict,
	}
	if !p.strict {
		req.lax = make(map[bagKey]*values.Bag)
	}

	seen := make(map[string]bool, len(cats))
	pending := make(map[bagKey][]values.Value)

	for _, cat := range cats {
		if seen[cat.Category] {
			return nil, status.NewSyntaxError("duplicate attribute category %s", cat.Category)
		}
		seen[cat.Category] = true

		if cat.Content != nil {
			req.content[cat.Category] = cat.Content
		}

		attrSeen := make(map[bagKey]bool, len(cat.Attributes))
		for _, attr := range cat.Attributes {
			if !values.KnownDatatype(attr.Datatype) {
				return nil, status.NewSyntaxError("unknown datatype %s for attribute %s", attr.Datatype, attr.ID)
			}
			key := bagKey{
				fqn:      FQN{Category: cat.Category, ID: attr.ID, Issuer: attr.Issuer},
				datatype: attr.Datatype,
			}
			if attrSeen[key] && p.strict {
				return nil, status.NewSyntaxError("duplicate attribute %s (issuer %q) in category %s", attr.ID, attr.Issuer, cat.Category)
			}
			attrSeen[key] = true

			for _, lexical := range attr.Values {
				v, err := values.FromString(attr.Datatype, lexical)
				if err != nil {
					return nil, status.NewSyntaxError("attribute %s: %v", attr.ID, err)
				}
				pending[key] = append(pending[key], v)
			}
			if p.maxBagSize > 0 && len(pending[key]) > p.maxBagSize {
				return nil, status.NewProcessingError("attribute %s exceeds bag size limit %d", attr.ID, p.maxBagSize)
			}
		}
	}

	p.injectEnvironment(pending, now)

	// Freeze: bags become immutable here, before evaluation observes them.
	for key, elems := range pending {
		bag, err := values.NewBag(key.datatype, elems...)
		if err != nil {
			return nil, status.Wrap(err)
		}
		req.bags[key] = bag
	}
	if !p.strict {
		merged := make(map[bagKey][]values.Value)
		for key, elems := range pending {
			lk := bagKey{fqn: key.fqn.WithoutIssuer(), datatype: key.datatype}
			merged[lk] = append(merged[lk], elems...)
		}
		for key, elems := range merged {
			bag, err := values.NewBag(key.datatype, elems...)
			if err != nil {
				return nil, status.Wrap(err)
			}
			req.lax[key] = bag
		}
	}
	return req, nil
}

func (p *Preprocessor) injectEnvironment(pending map[bagKey][]values.Value, now time.Time) {
	inject := func(id, datatype string, v values.Value) {
		key := bagKey{
			fqn:      FQN{Category: constants.CategoryEnvironment, ID: id},
			datatype: datatype,
		}
		if len(pending[key]) == 0 {
			pending[key] = []values.Value{v}
		}
	}
	inject(constants.AttributeCurrentDateTime, constants.DatatypeDateTime, values.NewDateTime(now))
	inject(constants.AttributeCurrentDate, constants.DatatypeDate, values.NewDate(now))
	inject(constants.AttributeCurrentTime, constants.DatatypeTime, values.NewTime(now))
}
