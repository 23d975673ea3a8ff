package verifier

import (
	"regexp"
	"strings"
)

// Address is a parsed, normalized email address (spec.md §3).
type Address struct {
	Raw        string
	Normalized string
	Local      string
	Domain     string
}

// Syntax is the result of running the RFC-5321-flavored grammar over an
// input. ErrKind is empty when Valid is true.
type Syntax struct {
	Valid   bool
	Local   string
	Domain  string
	ErrKind ErrorKind
}

var (
	// localRe matches the unquoted local-part grammar of spec.md §4.2.
	localRe = regexp.MustCompile(`^[A-Za-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+$`)
	// labelRe matches a single DNS label.
	labelRe = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)
)

const (
	maxLocalLen  = 64
	maxDomainLen = 253
)

// ParseAddress validates and normalizes an email address per spec.md §4.2.
// It is a pure, allocation-light function intended to run at ≥10^6/s per
// core; it performs no I/O.
func ParseAddress(input any) Syntax {
	s, ok := input.(string)
	if !ok {
		return Syntax{ErrKind: ErrKindNotAString}
	}

	s = strings.ToLower(strings.TrimSpace(s))

	if strings.Count(s, "@") != 1 {
		return Syntax{ErrKind: ErrKindMissingAt}
	}

	at := strings.LastIndex(s, "@")
	local, domain := s[:at], s[at+1:]

	if len(local) == 0 || len(local) > maxLocalLen {
		return Syntax{ErrKind: ErrKindLocalTooLong}
	}
	if len(domain) == 0 || len(domain) > maxDomainLen {
		return Syntax{ErrKind: ErrKindDomainTooLong}
	}

	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return Syntax{ErrKind: ErrKindBadLocal}
	}
	if !localRe.MatchString(local) {
		return Syntax{ErrKind: ErrKindBadLocal}
	}

	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") || strings.Contains(domain, "..") {
		return Syntax{ErrKind: ErrKindBadDomain}
	}
	for _, label := range strings.Split(domain, ".") {
		if !labelRe.MatchString(label) {
			return Syntax{ErrKind: ErrKindBadDomain}
		}
	}

	return Syntax{Valid: true, Local: local, Domain: domain}
}

// NewAddress builds an Address from a syntactically valid raw input. Callers
// must check Syntax.Valid before calling this.
func NewAddress(raw string, syntax Syntax) Address {
	return Address{
		Raw:        raw,
		Normalized: syntax.Local + "@" + syntax.Domain,
		Local:      syntax.Local,
		Domain:     syntax.Domain,
	}
}

// trimLower is the normalization the teacher applies before parsing; kept as
// a named helper because several components (misc, mx, smtp fingerprinting)
// need the same lowercase-and-trim step on bare domains, not just addresses.
func trimLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// domainOf extracts the domain from either a bare domain or a full email
// address, matching the flexible inputs spec.md §4.5 describes for the misc
// classifier.
func domainOf(s string) string {
	s = trimLower(s)
	if at := strings.LastIndex(s, "@"); at >= 0 {
		return s[at+1:]
	}
	return s
}

// TopLevelDomainExists reports whether domain's TLD is a recognized generic
// or country-code TLD. This is an optional enrichment of C2 (spec.md's
// structural grammar never requires a real-TLD check); it is adapted from
// the teacher's tld_check.go and gated behind Options.StrictTLD so it never
// changes default validation behavior.
func TopLevelDomainExists(domain string) bool {
	domain = strings.ToLower(domain)
	lastDot := strings.LastIndex(domain, ".")
	if lastDot == -1 {
		return false
	}
	tld := domain[lastDot+1:]
	_, ok1 := genericTLDs[tld]
	_, ok2 := countryCodeTLDs[tld]
	return ok1 || ok2
}

// genericTLDs and countryCodeTLDs are a small, illustrative set of common
// TLDs — not an exhaustive IANA mirror. The teacher's original tables were
// not part of the retrieved pack; StrictTLD is opt-in and off by default, so
// an incomplete table never silently invalidates real addresses unless the
// caller asks for it.
var genericTLDs = map[string]struct{}{
	"com": {}, "net": {}, "org": {}, "info": {}, "biz": {}, "name": {},
	"pro": {}, "edu": {}, "gov": {}, "mil": {}, "int": {}, "io": {},
	"co": {}, "dev": {}, "app": {}, "xyz": {}, "me": {}, "ai": {},
}

var countryCodeTLDs = map[string]struct{}{
	"us": {}, "uk": {}, "ca": {}, "de": {}, "fr": {}, "jp": {}, "cn": {},
	"in": {}, "au": {}, "br": {}, "ru": {}, "ch": {}, "nl": {}, "se": {},
	"es": {}, "it": {}, "pl": {}, "mx": {}, "kr": {}, "za": {},
}
