package verifier

import (
	"sync"

	"github.com/reachmail/verifier/cache"
)

// DomainSet is the external-collaborator contract for a static dataset of
// domains (spec.md §4.5: "the static dataset (provided externally)"). It
// lets callers swap in a larger, periodically-refreshed list without
// touching the classifier.
type DomainSet interface {
	Contains(domain string) bool
}

// staticSet is a simple sync.Map-backed DomainSet, modeled on the teacher's
// disposableSyncDomains field: a concurrently-readable set that can still be
// rebuilt wholesale (e.g. after a refresh fetch) without a write lock on
// every lookup.
type staticSet struct {
	m sync.Map
}

func newStaticSet(domains []string) *staticSet {
	s := &staticSet{}
	for _, d := range domains {
		s.m.Store(trimLower(d), struct{}{})
	}
	return s
}

func (s *staticSet) Contains(domain string) bool {
	_, ok := s.m.Load(trimLower(domain))
	return ok
}

// Replace swaps the set's contents atomically at the key level, matching the
// teacher's AddDisposableDomains append-only refresh pattern generalized to
// a full replace.
func (s *staticSet) Replace(domains []string) {
	fresh := &sync.Map{}
	for _, d := range domains {
		fresh.Store(trimLower(d), struct{}{})
	}
	s.m.Range(func(k, v any) bool {
		s.m.Delete(k)
		return true
	})
	fresh.Range(func(k, v any) bool {
		s.m.Store(k, v)
		return true
	})
}

// roleLocalParts are local-part prefixes conventionally bound to a role
// rather than an individual mailbox (spec.md's supplemented role-account
// detection, folded into C5). The list mirrors the shape the corpus uses
// (DevyanshuNegi/forgedlabs keyword lists) without claiming exhaustiveness.
var roleLocalParts = map[string]struct{}{
	"admin": {}, "administrator": {}, "support": {}, "help": {},
	"info": {}, "contact": {}, "sales": {}, "billing": {},
	"postmaster": {}, "webmaster": {}, "hostmaster": {}, "abuse": {},
	"noreply": {}, "no-reply": {}, "donotreply": {}, "security": {},
	"marketing": {}, "careers": {}, "jobs": {}, "hr": {}, "press": {},
	"feedback": {}, "newsletter": {}, "office": {}, "team": {},
}

// MiscClassifier runs the disposable/free/role-account checks of C5.
type MiscClassifier struct {
	Cache       cache.Cache
	Disposable  DomainSet
	Free        DomainSet
}

// NewMiscClassifier builds a classifier with the built-in seed datasets. The
// seed lists are intentionally small and illustrative; production use is
// expected to supply a larger DomainSet (e.g. loaded from a periodically
// refreshed external source) via the Disposable/Free fields.
func NewMiscClassifier(c cache.Cache) *MiscClassifier {
	return &MiscClassifier{
		Cache:      c,
		Disposable: newStaticSet(seedDisposableDomains),
		Free:       newStaticSet(seedFreeDomains),
	}
}

// MiscResult bundles the three classifications the orchestrator needs from
// a single domain+local pair.
type MiscResult struct {
	Disposable  bool
	Free        bool
	RoleAccount bool
}

// Classify runs disposable/free lookups through the cache first per
// spec.md §4.5, falling back to the static dataset on a miss and caching
// both hits and misses. RoleAccount never touches the network or cache: it
// is a pure local-part lookup.
func (m *MiscClassifier) Classify(local, domain string) MiscResult {
	domain = trimLower(domain)
	return MiscResult{
		Disposable:  m.isDisposable(domain),
		Free:        m.isFree(domain),
		RoleAccount: m.isRoleAccount(local),
	}
}

func (m *MiscClassifier) isDisposable(domain string) bool {
	return m.lookupCached(cache.NamespaceDisposable, domain, m.Disposable)
}

func (m *MiscClassifier) isFree(domain string) bool {
	return m.lookupCached(cache.NamespaceFree, domain, m.Free)
}

// IsDisposable accepts either a bare domain or a full email address, per
// spec.md §4.5 ("if input is an email, extract the domain"). It is the
// public entry point for callers that only need the disposable check in
// isolation, outside a full Verify call.
func (m *MiscClassifier) IsDisposable(input string) bool {
	return m.isDisposable(domainOf(input))
}

// IsFree is IsDisposable's counterpart for the free-provider check.
func (m *MiscClassifier) IsFree(input string) bool {
	return m.isFree(domainOf(input))
}

func (m *MiscClassifier) lookupCached(ns cache.Namespace, domain string, set DomainSet) bool {
	key := cache.Key(domain)
	if m.Cache != nil {
		var cached bool
		if m.Cache.GetTyped(ns, key, &cached) {
			return cached
		}
	}

	var result bool
	if set != nil {
		result = set.Contains(domain)
	}

	if m.Cache != nil {
		ttl := cache.TTLDisposable
		if ns == cache.NamespaceFree {
			ttl = cache.TTLFree
		}
		m.Cache.Set(ns, key, result, ttl)
	}
	return result
}

func (m *MiscClassifier) isRoleAccount(local string) bool {
	_, ok := roleLocalParts[trimLower(local)]
	return ok
}

// seedDisposableDomains and seedFreeDomains are small illustrative seed
// lists; real deployments are expected to supply a richer DomainSet.
var seedDisposableDomains = []string{
	"mailinator.com", "10minutemail.com", "guerrillamail.com",
	"tempmail.com", "throwawaymail.com", "yopmail.com", "trashmail.com",
	"getnada.com", "sharklasers.com", "dispostable.com",
}

var seedFreeDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "aol.com",
	"icloud.com", "protonmail.com", "mail.com", "gmx.com", "zoho.com",
	"live.com", "msn.com",
}
