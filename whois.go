package verifier

import (
	"github.com/likexian/whois"
	"golang.org/x/net/publicsuffix"

	"github.com/reachmail/verifier/cache"
)

// WHOISResult is the cached shape stored against the whois namespace. The
// raw record text is kept verbatim; parsing registrar-specific fields is
// deliberately left to the caller, since WHOIS output format varies wildly
// across registries.
type WHOISResult struct {
	RegistrableDomain string
	Raw               string
	ErrKind           ErrorKind
}

// WHOISLookup wraps github.com/likexian/whois with cache-aside caching
// keyed by the registrable domain (eTLD+1), not the full hostname, since
// WHOIS answers are the same for every subdomain of a registration.
type WHOISLookup struct {
	Cache cache.Cache
}

// NewWHOISLookup builds a lookup helper; a nil cache disables caching.
func NewWHOISLookup(c cache.Cache) *WHOISLookup {
	return &WHOISLookup{Cache: c}
}

// Lookup fetches (or returns the cached) WHOIS record for domain.
func (w *WHOISLookup) Lookup(domain string) WHOISResult {
	reg, err := registrableDomain(domain)
	if err != nil {
		reg = domain
	}

	key := cache.Key(reg)
	if w.Cache != nil {
		var r WHOISResult
		if w.Cache.GetTyped(cache.NamespaceWHOIS, key, &r) {
			return r
		}
	}

	raw, err := whois.Whois(reg)
	if err != nil {
		return WHOISResult{RegistrableDomain: reg, ErrKind: ErrKindHTTPProbeError}
	}

	result := WHOISResult{RegistrableDomain: reg, Raw: raw}
	if w.Cache != nil {
		w.Cache.Set(cache.NamespaceWHOIS, key, result, cache.TTLWHOIS)
	}
	return result
}

// registrableDomain computes the eTLD+1 (e.g. "mail.corp.example.co.uk" ->
// "example.co.uk"), grounded on Vandit1604-emailguard's helper of the same
// purpose.
func registrableDomain(domain string) (string, error) {
	return publicsuffix.EffectiveTLDPlusOne(trimLower(domain))
}
