package verifier

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"time"

	"github.com/reachmail/verifier/cache"
)

// PortProber implements C7: tries a provider-tuned port list in order,
// caching the winning port per mxHost so subsequent calls try it first.
type PortProber struct {
	Cache cache.Cache
}

// NewPortProber builds a prober; a nil cache disables the winning-port
// fast path (every call walks the full port list).
func NewPortProber(c cache.Cache) *PortProber {
	return &PortProber{Cache: c}
}

// Probe returns the first port in ports (cached winner tried first) that
// accepts a TCP connection and yields a readable greeting line within
// connectTimeout. Invalid ports are rejected without attempting a
// connection, per spec.md §4.7.
func (p *PortProber) Probe(ctx context.Context, mxHost string, ports []int, connectTimeout time.Duration) (int, error) {
	valid := make([]int, 0, len(ports))
	for _, port := range ports {
		if port > 0 && port <= 65535 {
			valid = append(valid, port)
		}
	}
	if len(valid) == 0 {
		return 0, errNoValidPorts
	}

	key := cache.Key(mxHost)
	ordered := valid
	if p.Cache != nil {
		var cached int
		if p.Cache.GetTyped(cache.NamespaceSMTPPort, key, &cached) {
			ordered = withCachedFirst(valid, cached)
		}
	}

	for _, port := range ordered {
		if p.reachesGreeting(ctx, mxHost, port, connectTimeout) {
			if p.Cache != nil {
				p.Cache.Set(cache.NamespaceSMTPPort, key, port, cache.TTLSMTPPort)
			}
			return port, nil
		}
	}
	return 0, errNoPortReachable
}

func (p *PortProber) reachesGreeting(ctx context.Context, mxHost string, port int, timeout time.Duration) bool {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(mxHost, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(timeout))
	code, _, err := readReply(bufio.NewReader(conn))
	return err == nil && code == 220
}

func withCachedFirst(ports []int, cached int) []int {
	out := make([]int, 0, len(ports))
	out = append(out, cached)
	for _, p := range ports {
		if p != cached {
			out = append(out, p)
		}
	}
	return out
}

var (
	errNoValidPorts    = portProbeError("no valid ports supplied")
	errNoPortReachable = portProbeError("no port in the tuned list reached an open session")
)

type portProbeError string

func (e portProbeError) Error() string { return string(e) }
