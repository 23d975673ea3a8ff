package verifier

import (
	"context"
	"testing"
	"time"

	"github.com/reachmail/verifier/cache"
)

func TestVerifyInvalidSyntaxShortCircuits(t *testing.T) {
	v := NewWithOptions(DefaultOptions().WithMX(false))
	res, err := v.Verify(context.Background(), "not-an-email")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reachability != ReachabilityInvalid {
		t.Fatalf("expected invalid reachability, got %v", res.Reachability)
	}
	if res.ErrorKind != ErrKindMissingAt {
		t.Fatalf("expected missing_at error kind, got %v", res.ErrorKind)
	}
}

func TestVerifyRequiresEmail(t *testing.T) {
	v := New()
	_, err := v.Verify(context.Background(), "")
	if err != ErrEmailRequired {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
}

func TestVerifyDisposableDomainIsRisky(t *testing.T) {
	c := cache.NewLRU(0)
	// Pre-seed the MX cache so this test never touches the network.
	c.Set(cache.NamespaceMX, cache.Key("mailinator.com"), []string{"mx.mailinator.com"}, cache.TTLMX)

	v := NewWithOptions(DefaultOptions().WithCache(c).WithTimeout(2 * time.Second))
	res, err := v.Verify(context.Background(), "someone@mailinator.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reachability != ReachabilityRisky {
		t.Fatalf("expected risky reachability for disposable domain, got %v", res.Reachability)
	}
}

func TestVerifyNoMXRecordsIsInvalid(t *testing.T) {
	c := cache.NewLRU(0)
	c.Set(cache.NamespaceMX, cache.Key("no-mx.example"), []string{}, cache.TTLMX)

	v := NewWithOptions(DefaultOptions().WithCache(c).WithTimeout(2 * time.Second))
	res, err := v.Verify(context.Background(), "someone@no-mx.example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reachability != ReachabilityInvalid {
		t.Fatalf("expected invalid reachability for empty MX set, got %v", res.Reachability)
	}
}

func TestVerifyStrictTLDRejectsUnrecognizedTLD(t *testing.T) {
	v := NewWithOptions(DefaultOptions().WithMX(false).WithStrictTLD(true))
	res, err := v.Verify(context.Background(), "someone@example.nosuchtld")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reachability != ReachabilityInvalid {
		t.Fatalf("expected invalid reachability under strict TLD mode, got %v", res.Reachability)
	}
	if res.ErrorKind != ErrKindBadDomain {
		t.Fatalf("expected bad_domain error kind, got %v", res.ErrorKind)
	}
}

func TestNewWithOptionsRejectsBadSMTPOptions(t *testing.T) {
	opts := DefaultOptions().WithSMTP(true).WithFromEmail("").WithHelloName("")
	v := NewWithOptions(opts)
	_, err := v.Verify(context.Background(), "someone@example.com")
	if err != ErrInvalidSMTPOptions {
		t.Fatalf("expected ErrInvalidSMTPOptions, got %v", err)
	}
}
