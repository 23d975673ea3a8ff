package verifier

import (
	"context"
	"testing"
	"time"

	"github.com/reachmail/verifier/cache"
)

func TestMXResolverCacheRoundTrip(t *testing.T) {
	c := cache.NewLRU(0)
	key := cache.Key("example.com")
	c.Set(cache.NamespaceMX, key, []string{"mx1.example.com", "mx2.example.com"}, cache.TTLMX)

	r := NewMXResolver(c, time.Second)
	lookup := r.Resolve(context.Background(), "example.com")

	if !lookup.HasRecords {
		t.Fatal("expected cached records to be returned")
	}
	if got := lookup.Hosts(); len(got) != 2 || got[0] != "mx1.example.com" {
		t.Fatalf("unexpected hosts: %v", got)
	}
}

func TestDomainToASCII(t *testing.T) {
	ascii, err := domainToASCII("EXAMPLE.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ascii != "example.com" {
		t.Fatalf("expected lowercase passthrough, got %q", ascii)
	}
}

func TestTrimDot(t *testing.T) {
	if got := trimDot("mx.example.com."); got != "mx.example.com" {
		t.Fatalf("expected trailing dot trimmed, got %q", got)
	}
	if got := trimDot("mx.example.com"); got != "mx.example.com" {
		t.Fatalf("expected no-op on host without trailing dot, got %q", got)
	}
}
