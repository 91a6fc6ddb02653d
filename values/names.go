package values

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/dtc-forks/authzforce-core/constants"
)

// X500Name is an X.500 directory name attribute value. The original lexical
// form is preserved; equality and matching work on the normalized RDN
// sequence (trimmed, case-folded).
type X500Name struct {
	raw  string
	rdns []string
}

func (X500Name) DatatypeID() string { return constants.DatatypeX500Name }
func (v X500Name) String() string   { return v.raw }
func (v X500Name) Equal(o Value) bool {
	w, ok := o.(X500Name)
	if !ok || len(v.rdns) != len(w.rdns) {
		return false
	}
	for i := range v.rdns {
		if v.rdns[i] != w.rdns[i] {
			return false
		}
	}
	return true
}

// MatchesSuffix reports whether v terminates the RDN sequence of other, the
// x500Name-match relation.
func (v X500Name) MatchesSuffix(other X500Name) bool {
	if len(v.rdns) > len(other.rdns) {
		return false
	}
	offset := len(other.rdns) - len(v.rdns)
	for i := range v.rdns {
		if v.rdns[i] != other.rdns[offset+i] {
			return false
		}
	}
	return true
}

func parseX500Name(s string) (Value, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("invalid x500Name literal %q", s)
	}
	parts := strings.Split(s, ",")
	rdns := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || !strings.Contains(p, "=") {
			return nil, fmt.Errorf("invalid x500Name literal %q", s)
		}
		kv := strings.SplitN(p, "=", 2)
		rdns = append(rdns, strings.ToLower(strings.TrimSpace(kv[0]))+"="+strings.ToLower(strings.TrimSpace(kv[1])))
	}
	return X500Name{raw: s, rdns: rdns}, nil
}

// RFC822Name is an email-style name attribute value. The local part is
// case-sensitive, the domain part is not.
type RFC822Name struct {
	local  string
	domain string
}

func (RFC822Name) DatatypeID() string { return constants.DatatypeRFC822Name }
func (v RFC822Name) String() string   { return v.local + "@" + v.domain }
func (v RFC822Name) Equal(o Value) bool {
	w, ok := o.(RFC822Name)
	return ok && v.local == w.local && strings.EqualFold(v.domain, w.domain)
}

// Matches implements rfc822Name-match against a matcher string, which may be
// a whole name ("user@sun.com"), a whole domain ("sun.com") or a subdomain
// pattern (".east.sun.com").
func (v RFC822Name) Matches(pattern string) bool {
	if at := strings.IndexByte(pattern, '@'); at >= 0 {
		return v.local == pattern[:at] && strings.EqualFold(v.domain, pattern[at+1:])
	}
	if strings.HasPrefix(pattern, ".") {
		return len(v.domain) >= len(pattern) &&
			strings.EqualFold(v.domain[len(v.domain)-len(pattern):], pattern)
	}
	return strings.EqualFold(v.domain, pattern)
}

func parseRFC822Name(s string) (Value, error) {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 || strings.IndexByte(s[at+1:], '@') >= 0 {
		return nil, fmt.Errorf("invalid rfc822Name literal %q", s)
	}
	return RFC822Name{local: s[:at], domain: s[at+1:]}, nil
}

// PortRange is an optional port interval on ipAddress and dnsName values.
// A zero bound means unbounded on that side.
type PortRange struct {
	Lower int
	Upper int
}

// Empty reports whether no port constraint is present.
func (p PortRange) Empty() bool { return p.Lower == 0 && p.Upper == 0 }

// Contains reports whether the range admits the given port.
func (p PortRange) Contains(port int) bool {
	if p.Lower != 0 && port < p.Lower {
		return false
	}
	if p.Upper != 0 && port > p.Upper {
		return false
	}
	return true
}

func (p PortRange) String() string {
	switch {
	case p.Empty():
		return ""
	case p.Lower == p.Upper:
		return strconv.Itoa(p.Lower)
	case p.Lower == 0:
		return "-" + strconv.Itoa(p.Upper)
	case p.Upper == 0:
		return strconv.Itoa(p.Lower) + "-"
	}
	return strconv.Itoa(p.Lower) + "-" + strconv.Itoa(p.Upper)
}

func parsePortRange(s string) (PortRange, error) {
	if s == "" {
		return PortRange{}, nil
	}
	if i := strings.IndexByte(s, '-'); i >= 0 {
		var pr PortRange
		var err error
		if i > 0 {
			if pr.Lower, err = strconv.Atoi(s[:i]); err != nil {
				return PortRange{}, err
			}
		}
		if i < len(s)-1 {
			if pr.Upper, err = strconv.Atoi(s[i+1:]); err != nil {
				return PortRange{}, err
			}
		}
		return pr, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return PortRange{}, err
	}
	return PortRange{Lower: n, Upper: n}, nil
}

// IPAddress is an ipAddress attribute value: an address, an optional mask and
// an optional port range.
type IPAddress struct {
	Addr  netip.Addr
	Mask  netip.Addr
	Ports PortRange
	// hasMask distinguishes "no mask" from the zero Addr.
	hasMask bool
}

func (IPAddress) DatatypeID() string { return constants.DatatypeIPAddress }
func (v IPAddress) String() string {
	s := v.Addr.String()
	if v.hasMask {
		s += "/" + v.Mask.String()
	}
	if !v.Ports.Empty() {
		s += ":" + v.Ports.String()
	}
	return s
}
func (v IPAddress) Equal(o Value) bool {
	w, ok := o.(IPAddress)
	return ok && v.Addr == w.Addr && v.hasMask == w.hasMask && v.Mask == w.Mask && v.Ports == w.Ports
}

// HasMask reports whether a mask component is present.
func (v IPAddress) HasMask() bool { return v.hasMask }

func parseIPAddress(s string) (Value, error) {
	rest := s
	var ports PortRange

	// IPv6 forms are bracketed when a port range follows: [::1]:8080-8090.
	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("invalid ipAddress literal %q", s)
		}
		tail := rest[end+1:]
		rest = rest[1:end]
		if strings.HasPrefix(tail, ":") {
			pr, err := parsePortRange(tail[1:])
			if err != nil {
				return nil, fmt.Errorf("invalid ipAddress literal %q", s)
			}
			ports = pr
		} else if tail != "" {
			return nil, fmt.Errorf("invalid ipAddress literal %q", s)
		}
	} else if i := strings.LastIndexByte(rest, ':'); i >= 0 && strings.Count(rest, ":") == 1 {
		pr, err := parsePortRange(rest[i+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid ipAddress literal %q", s)
		}
		ports = pr
		rest = rest[:i]
	}

	var mask netip.Addr
	hasMask := false
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		m, err := netip.ParseAddr(rest[i+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid ipAddress mask in %q", s)
		}
		mask = m
		hasMask = true
		rest = rest[:i]
	}

	addr, err := netip.ParseAddr(rest)
	if err != nil {
		return nil, fmt.Errorf("invalid ipAddress literal %q", s)
	}
	return IPAddress{Addr: addr, Mask: mask, Ports: ports, hasMask: hasMask}, nil
}

// DNSName is a dnsName attribute value: a hostname, optionally with a
// leading "*." wildcard label, and an optional port range.
type DNSName struct {
	Host  string
	Ports PortRange
}

func (DNSName) DatatypeID() string { return constants.DatatypeDNSName }
func (v DNSName) String() string {
	if v.Ports.Empty() {
		return v.Host
	}
	return v.Host + ":" + v.Ports.String()
}
func (v DNSName) Equal(o Value) bool {
	w, ok := o.(DNSName)
	return ok && strings.EqualFold(v.Host, w.Host) && v.Ports == w.Ports
}

func parseDNSName(s string) (Value, error) {
	host := s
	var ports PortRange
	if i := strings.IndexByte(s, ':'); i >= 0 {
		pr, err := parsePortRange(s[i+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid dnsName literal %q", s)
		}
		ports = pr
		host = s[:i]
	}
	if host == "" || strings.ContainsAny(host, " /@") {
		return nil, fmt.Errorf("invalid dnsName literal %q", s)
	}
	if strings.HasPrefix(host, "*") && !strings.HasPrefix(host, "*.") && host != "*" {
		return nil, fmt.Errorf("invalid dnsName literal %q", s)
	}
	return DNSName{Host: host, Ports: ports}, nil
}
