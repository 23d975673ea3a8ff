package verifier

import (
	"context"
	"errors"
	"net"
	"os"
	"sort"
	"time"

	"golang.org/x/net/idna"

	"github.com/reachmail/verifier/cache"
)

// MXRecord is a single resolved mail exchanger. Priority is kept alongside
// the host, but the orchestrator never depends on the numeric priority
// beyond the ordering it already produced (spec.md §4.3); records rebuilt
// from the cache carry synthetic priorities 0, 1, 2, ...
type MXRecord struct {
	Host     string
	Priority uint16
}

// MXLookup is the outcome of resolving a domain's mail exchangers.
type MXLookup struct {
	HasRecords bool
	Records    []MXRecord
	ErrKind    ErrorKind
}

// Hosts returns the resolved hosts in priority order.
func (l MXLookup) Hosts() []string {
	hosts := make([]string, len(l.Records))
	for i, r := range l.Records {
		hosts[i] = r.Host
	}
	return hosts
}

// MXResolver resolves a domain's MX records with cache-aside caching.
type MXResolver struct {
	Cache   cache.Cache
	Timeout time.Duration
}

// NewMXResolver builds a resolver; a nil cache disables caching entirely
// (every call performs a live DNS query).
func NewMXResolver(c cache.Cache, timeout time.Duration) *MXResolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MXResolver{Cache: c, Timeout: timeout}
}

// Resolve implements C3. Negative results (lookup errors) are never cached,
// per spec.md §4.1; only a successful, possibly-empty record set is.
func (r *MXResolver) Resolve(ctx context.Context, domain string) MXLookup {
	ascii, err := domainToASCII(domain)
	if err != nil {
		return MXLookup{ErrKind: ErrKindBadDomain}
	}

	key := cache.Key(ascii)
	if r.Cache != nil {
		var hosts []string
		if r.Cache.GetTyped(cache.NamespaceMX, key, &hosts) {
			return lookupFromCachedHosts(hosts)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	mxs, err := net.DefaultResolver.LookupMX(ctx, ascii)
	if err != nil {
		return MXLookup{ErrKind: classifyDNSError(err)}
	}

	sort.Slice(mxs, func(i, j int) bool { return mxs[i].Pref < mxs[j].Pref })

	records := make([]MXRecord, len(mxs))
	hosts := make([]string, len(mxs))
	for i, mx := range mxs {
		host := trimDot(mx.Host)
		records[i] = MXRecord{Host: host, Priority: mx.Pref}
		hosts[i] = host
	}

	lookup := MXLookup{HasRecords: len(records) > 0, Records: records}
	if r.Cache != nil {
		r.Cache.Set(cache.NamespaceMX, key, hosts, cache.TTLMX)
	}
	return lookup
}

func lookupFromCachedHosts(hosts []string) MXLookup {
	records := make([]MXRecord, len(hosts))
	for i, h := range hosts {
		records[i] = MXRecord{Host: h, Priority: uint16(i)}
	}
	return MXLookup{HasRecords: len(records) > 0, Records: records}
}

// domainToASCII converts an internationalized domain name to its punycode
// form, matching the teacher's domainToASCII helper.
func domainToASCII(domain string) (string, error) {
	return idna.Lookup.ToASCII(trimLower(domain))
}

func trimDot(host string) string {
	if len(host) > 0 && host[len(host)-1] == '.' {
		return host[:len(host)-1]
	}
	return host
}

// classifyDNSError maps a net.DefaultResolver error into the timeout /
// notFound / network buckets spec.md §4.3 requires, since §3's verdict
// table treats them differently.
func classifyDNSError(err error) ErrorKind {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return ErrKindMxNotFound
		}
		if dnsErr.IsTimeout {
			return ErrKindMxTimeout
		}
		return ErrKindMxNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrKindMxTimeout
	}
	return ErrKindMxNetwork
}
