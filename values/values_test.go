package values

import (
	"testing"
	"time"

	"github.com/dtc-forks/authzforce-core/constants"
)

func TestFromStringRoundTrip(t *testing.T) {
	testCases := []struct {
		datatype string
		lexical  string
		want     string
	}{
		{constants.DatatypeString, "hello", "hello"},
		{constants.DatatypeBoolean, "true", "true"},
		{constants.DatatypeBoolean, "false", "false"},
		{constants.DatatypeInteger, "42", "42"},
		{constants.DatatypeInteger, "-7", "-7"},
		{constants.DatatypeDouble, "1.5", "1.5"},
		{constants.DatatypeDouble, "INF", "INF"},
		{constants.DatatypeAnyURI, "https://example.com/a", "https://example.com/a"},
		{constants.DatatypeDate, "2024-03-01", "2024-03-01"},
		{constants.DatatypeTime, "09:30:00", "09:30:00"},
		{constants.DatatypeDateTime, "2024-03-01T09:30:00Z", "2024-03-01T09:30:00Z"},
		{constants.DatatypeDayTimeDuration, "P1DT2H", "P1DT2H"},
		{constants.DatatypeDayTimeDuration, "PT30S", "PT30S"},
		{constants.DatatypeYearMonthDuration, "P1Y2M", "P1Y2M"},
		{constants.DatatypeHexBinary, "0FB7", "0FB7"},
		{constants.DatatypeBase64Binary, "aGVsbG8=", "aGVsbG8="},
		{constants.DatatypeRFC822Name, "Anne.Smith@sun.com", "Anne.Smith@sun.com"},
		{constants.DatatypeX500Name, "cn=John Doe, o=Example, c=US", "cn=John Doe, o=Example, c=US"},
		{constants.DatatypeIPAddress, "192.168.1.10", "192.168.1.10"},
		{constants.DatatypeDNSName, "www.example.com", "www.example.com"},
	}

	for _, tc := range testCases {
		v, err := FromString(tc.datatype, tc.lexical)
		if err != nil {
			t.Errorf("FromString(%s, %q) failed: %v", tc.datatype, tc.lexical, err)
			continue
		}
		if v.String() != tc.want {
			t.Errorf("FromString(%s, %q).String() = %q, want %q", tc.datatype, tc.lexical, v.String(), tc.want)
		}
		if v.DatatypeID() != tc.datatype {
			t.Errorf("FromString(%s, %q).DatatypeID() = %q", tc.datatype, tc.lexical, v.DatatypeID())
		}
	}
}

func TestFromStringRejectsMalformed(t *testing.T) {
	testCases := []struct {
		datatype string
		lexical  string
	}{
		{constants.DatatypeBoolean, "error"},
		{constants.DatatypeBoolean, "TRUE"},
		{constants.DatatypeBoolean, "1"},
		{constants.DatatypeInteger, "12.5"},
		{constants.DatatypeInteger, "abc"},
		{constants.DatatypeDouble, "1,5"},
		{constants.DatatypeDate, "01-03-2024"},
		{constants.DatatypeDateTime, "2024-03-01"},
		{constants.DatatypeDayTimeDuration, "P"},
		{constants.DatatypeDayTimeDuration, "P1Y"},
		{constants.DatatypeYearMonthDuration, "P1D"},
		{constants.DatatypeHexBinary, "0FB"},
		{constants.DatatypeRFC822Name, "no-at-sign"},
		{constants.DatatypeRFC822Name, "@sun.com"},
		{constants.DatatypeX500Name, "no-rdn"},
		{constants.DatatypeIPAddress, "not-an-ip"},
		{constants.DatatypeAnyURI, "has space"},
	}

	for _, tc := range testCases {
		if _, err := FromString(tc.datatype, tc.lexical); err == nil {
			t.Errorf("FromString(%s, %q) should have failed", tc.datatype, tc.lexical)
		}
	}
}

func TestEqualIsDatatypeSpecific(t *testing.T) {
	if String("42").Equal(Integer(42)) {
		t.Error("string and integer values must not compare equal")
	}
	if !Integer(42).Equal(Integer(42)) {
		t.Error("equal integers must compare equal")
	}

	// rfc822Name: local part case-sensitive, domain case-insensitive.
	a, _ := FromString(constants.DatatypeRFC822Name, "Anne@Sun.COM")
	b, _ := FromString(constants.DatatypeRFC822Name, "Anne@sun.com")
	c, _ := FromString(constants.DatatypeRFC822Name, "anne@sun.com")
	if !a.Equal(b) {
		t.Error("rfc822Name domain comparison must be case-insensitive")
	}
	if a.Equal(c) {
		t.Error("rfc822Name local part comparison must be case-sensitive")
	}

	// dateTime with equivalent instants in different zones.
	d1, _ := FromString(constants.DatatypeDateTime, "2024-03-01T10:00:00+01:00")
	d2, _ := FromString(constants.DatatypeDateTime, "2024-03-01T09:00:00Z")
	if !d1.Equal(d2) {
		t.Error("dateTime equality must compare instants")
	}
}

func TestCompare(t *testing.T) {
	testCases := []struct {
		a, b Value
		want int
	}{
		{Integer(1), Integer(2), -1},
		{Integer(2), Integer(2), 0},
		{Double(3.5), Double(1.5), 1},
		{String("a"), String("b"), -1},
	}
	for _, tc := range testCases {
		got, err := Compare(tc.a, tc.b)
		if err != nil {
			t.Fatalf("Compare(%v, %v) failed: %v", tc.a, tc.b, err)
		}
		if got != tc.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}

	if _, err := Compare(Integer(1), String("1")); err == nil {
		t.Error("comparing different datatypes should fail")
	}
	if _, err := Compare(Boolean(true), Boolean(false)); err == nil {
		t.Error("boolean has no order")
	}
}

func TestDurations(t *testing.T) {
	d, err := FromString(constants.DatatypeDayTimeDuration, "-P1DT30M")
	if err != nil {
		t.Fatal(err)
	}
	want := -(24*time.Hour + 30*time.Minute)
	if got := d.(DayTimeDuration).Duration(); got != want {
		t.Errorf("duration = %v, want %v", got, want)
	}

	ym, err := FromString(constants.DatatypeYearMonthDuration, "P2Y3M")
	if err != nil {
		t.Fatal(err)
	}
	if got := ym.(YearMonthDuration).Months(); got != 27 {
		t.Errorf("months = %d, want 27", got)
	}
}

func TestX500NameMatchesSuffix(t *testing.T) {
	parse := func(s string) X500Name {
		v, err := FromString(constants.DatatypeX500Name, s)
		if err != nil {
			t.Fatal(err)
		}
		return v.(X500Name)
	}

	testCases := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"o=Medico Corp, c=US", "cn=John Smith, o=Medico Corp, c=US", true},
		{"O=MEDICO CORP, C=US", "cn=John Smith, o=Medico Corp, c=US", true},
		{"o=Other Corp, c=US", "cn=John Smith, o=Medico Corp, c=US", false},
		{"cn=John Smith, o=Medico Corp, c=US", "cn=John Smith, o=Medico Corp, c=US", true},
		{"cn=John Smith, o=Medico Corp, c=US", "o=Medico Corp, c=US", false},
	}
	for _, tc := range testCases {
		if got := parse(tc.pattern).MatchesSuffix(parse(tc.name)); got != tc.want {
			t.Errorf("MatchesSuffix(%q, %q) = %v, want %v", tc.pattern, tc.name, got, tc.want)
		}
	}
}

func TestRFC822NameMatches(t *testing.T) {
	v, err := FromString(constants.DatatypeRFC822Name, "Anne.Smith@EAST.sun.com")
	if err != nil {
		t.Fatal(err)
	}
	name := v.(RFC822Name)

	testCases := []struct {
		pattern string
		want    bool
	}{
		{"Anne.Smith@east.sun.com", true},
		{"anne.smith@east.sun.com", false},
		{"east.sun.com", true},
		{"sun.com", false},
		{".sun.com", true},
		{".east.sun.com", false},
		{".example.com", false},
	}
	for _, tc := range testCases {
		if got := name.Matches(tc.pattern); got != tc.want {
			t.Errorf("Matches(%q) = %v, want %v", tc.pattern, got, tc.want)
		}
	}
}

func TestIPAddressParsing(t *testing.T) {
	v, err := FromString(constants.DatatypeIPAddress, "10.0.0.1/255.255.255.0:80-443")
	if err != nil {
		t.Fatal(err)
	}
	ip := v.(IPAddress)
	if !ip.HasMask() {
		t.Error("expected mask")
	}
	if ip.Ports.Lower != 80 || ip.Ports.Upper != 443 {
		t.Errorf("ports = %+v", ip.Ports)
	}
	if got := ip.String(); got != "10.0.0.1/255.255.255.0:80-443" {
		t.Errorf("String() = %q", got)
	}
}

func TestPortRangeContains(t *testing.T) {
	pr, err := parsePortRange("1024-")
	if err != nil {
		t.Fatal(err)
	}
	if pr.Contains(80) {
		t.Error("80 should be outside 1024-")
	}
	if !pr.Contains(8080) {
		t.Error("8080 should be inside 1024-")
	}
}

func TestBag(t *testing.T) {
	bag, err := NewBag(constants.DatatypeString, String("a"), String("b"), String("a"))
	if err != nil {
		t.Fatal(err)
	}
	if bag.Size() != 3 {
		t.Errorf("Size() = %d, want 3", bag.Size())
	}
	if !bag.Contains(String("b")) {
		t.Error("bag should contain b")
	}
	if bag.Contains(String("c")) {
		t.Error("bag should not contain c")
	}
	if _, err := bag.Single(); err == nil {
		t.Error("Single() on a 3-element bag should fail")
	}

	if _, err := NewBag(constants.DatatypeString, Integer(1)); err == nil {
		t.Error("NewBag should reject mistyped elements")
	}

	other, _ := NewBag(constants.DatatypeString, String("a"), String("a"), String("b"))
	if !bag.Equal(other) {
		t.Error("multiset equality should ignore order")
	}
	fewer, _ := NewBag(constants.DatatypeString, String("a"), String("b"))
	if bag.Equal(fewer) {
		t.Error("bags of different size must differ")
	}
}
