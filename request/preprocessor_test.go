package request

import (
	"errors"
	"testing"
	"time"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/status"
)

func subjectCategory(attrs ...RawAttribute) RawCategory {
	return RawCategory{Category: constants.CategoryAccessSubject, Attributes: attrs}
}

func TestProcessRejectsDuplicateCategory(t *testing.T) {
	pre := NewPreprocessor(false, 0)
	_, err := pre.Process([]RawCategory{subjectCategory(), subjectCategory()}, time.Now())
	var se *status.Error
	if !errors.As(err, &se) || se.Code != constants.StatusSyntaxError {
		t.Fatalf("duplicate category should be a syntax error, got %v", err)
	}
}

func TestProcessMergesDuplicateAttributesInLaxMode(t *testing.T) {
	pre := NewPreprocessor(false, 0)
	req, err := pre.Process([]RawCategory{subjectCategory(
		RawAttribute{ID: "urn:test:group", Datatype: constants.DatatypeString, Values: []string{"dev"}},
		RawAttribute{ID: "urn:test:group", Datatype: constants.DatatypeString, Values: []string{"ops"}},
	)}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	bag := req.AttributeBag(FQN{Category: constants.CategoryAccessSubject, ID: "urn:test:group"}, constants.DatatypeString)
	if bag == nil || bag.Size() != 2 {
		t.Fatalf("lax mode should merge duplicates into one bag, got %v", bag)
	}
}

func TestProcessRejectsDuplicateAttributesInStrictMode(t *testing.T) {
	pre := NewPreprocessor(true, 0)
	_, err := pre.Process([]RawCategory{subjectCategory(
		RawAttribute{ID: "urn:test:group", Datatype: constants.DatatypeString, Values: []string{"dev"}},
		RawAttribute{ID: "urn:test:group", Datatype: constants.DatatypeString, Values: []string{"ops"}},
	)}, time.Now())
	var se *status.Error
	if !errors.As(err, &se) || se.Code != constants.StatusSyntaxError {
		t.Fatalf("strict mode should reject duplicates, got %v", err)
	}
}

func TestIssuerMatching(t *testing.T) {
	cats := []RawCategory{subjectCategory(
		RawAttribute{ID: "urn:test:role", Issuer: "https://idp.example.com", Datatype: constants.DatatypeString, Values: []string{"admin"}},
	)}
	noIssuer := FQN{Category: constants.CategoryAccessSubject, ID: "urn:test:role"}
	withIssuer := FQN{Category: constants.CategoryAccessSubject, ID: "urn:test:role", Issuer: "https://idp.example.com"}

	// Lax: a designator without issuer sees attributes from any issuer.
	lax, err := NewPreprocessor(false, 0).Process(cats, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if bag := lax.AttributeBag(noIssuer, constants.DatatypeString); bag == nil || bag.Size() != 1 {
		t.Error("lax mode should match issuerless designators against issued attributes")
	}
	if bag := lax.AttributeBag(withIssuer, constants.DatatypeString); bag == nil || bag.Size() != 1 {
		t.Error("explicit issuer lookup should match in lax mode")
	}

	// Strict: missing issuer matches only missing issuer.
	strict, err := NewPreprocessor(true, 0).Process(cats, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if bag := strict.AttributeBag(noIssuer, constants.DatatypeString); bag != nil {
		t.Error("strict mode should not match issuerless designators against issued attributes")
	}
	if bag := strict.AttributeBag(withIssuer, constants.DatatypeString); bag == nil || bag.Size() != 1 {
		t.Error("explicit issuer lookup should match in strict mode")
	}
}

func TestProcessEnforcesBagSizeLimit(t *testing.T) {
	pre := NewPreprocessor(false, 2)
	_, err := pre.Process([]RawCategory{subjectCategory(
		RawAttribute{ID: "urn:test:group", Datatype: constants.DatatypeString, Values: []string{"a", "b", "c"}},
	)}, time.Now())
	var se *status.Error
	if !errors.As(err, &se) || se.Code != constants.StatusProcessingError {
		t.Fatalf("bag size overflow should be a processing error, got %v", err)
	}
}

func TestProcessRejectsMalformedValues(t *testing.T) {
	pre := NewPreprocessor(false, 0)
	_, err := pre.Process([]RawCategory{subjectCategory(
		RawAttribute{ID: "urn:test:age", Datatype: constants.DatatypeInteger, Values: []string{"not-a-number"}},
	)}, time.Now())
	var se *status.Error
	if !errors.As(err, &se) || se.Code != constants.StatusSyntaxError {
		t.Fatalf("malformed value should be a syntax error, got %v", err)
	}
}

func TestCurrentDateTimeInjection(t *testing.T) {
	now, _ := time.Parse(time.RFC3339, "2024-03-01T10:30:00Z")
	req, err := NewPreprocessor(false, 0).Process(nil, now)
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		id       string
		datatype string
		want     string
	}{
		{constants.AttributeCurrentDateTime, constants.DatatypeDateTime, "2024-03-01T10:30:00Z"},
		{constants.AttributeCurrentDate, constants.DatatypeDate, "2024-03-01Z"},
		{constants.AttributeCurrentTime, constants.DatatypeTime, "10:30:00Z"},
	}
	for _, tc := range testCases {
		bag := req.AttributeBag(FQN{Category: constants.CategoryEnvironment, ID: tc.id}, tc.datatype)
		if bag == nil || bag.Size() != 1 {
			t.Errorf("environment attribute %s not injected", tc.id)
			continue
		}
		if got := bag.Elements()[0].String(); got != tc.want {
			t.Errorf("%s = %q, want %q", tc.id, got, tc.want)
		}
	}

	// A request-supplied value wins over injection.
	req, err = NewPreprocessor(false, 0).Process([]RawCategory{{
		Category: constants.CategoryEnvironment,
		Attributes: []RawAttribute{{
			ID:       constants.AttributeCurrentDateTime,
			Datatype: constants.DatatypeDateTime,
			Values:   []string{"2020-01-01T00:00:00Z"},
		}},
	}}, now)
	if err != nil {
		t.Fatal(err)
	}
	bag := req.AttributeBag(FQN{Category: constants.CategoryEnvironment, ID: constants.AttributeCurrentDateTime}, constants.DatatypeDateTime)
	if got := bag.Elements()[0].String(); got != "2020-01-01T00:00:00Z" {
		t.Errorf("request-supplied current-dateTime overridden: %q", got)
	}
}
