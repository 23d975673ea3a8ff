package verifier

import (
	"testing"

	"github.com/reachmail/verifier/cache"
)

func TestRegistrableDomain(t *testing.T) {
	cases := map[string]string{
		"example.com":         "example.com",
		"mail.example.com":    "example.com",
		"a.b.c.example.co.uk": "example.co.uk",
		"EXAMPLE.COM":         "example.com",
	}
	for input, want := range cases {
		got, err := registrableDomain(input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("registrableDomain(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestWHOISLookupCacheRoundTrip(t *testing.T) {
	c := cache.NewLRU(0)
	seeded := WHOISResult{RegistrableDomain: "example.com", Raw: "registrar: example registrar"}
	c.Set(cache.NamespaceWHOIS, cache.Key("example.com"), seeded, cache.TTLWHOIS)

	w := NewWHOISLookup(c)
	got := w.Lookup("mail.example.com")
	if got.Raw != seeded.Raw {
		t.Fatalf("expected cached WHOIS record to be returned verbatim, got %#v", got)
	}
}
