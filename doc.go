// Package verifier checks whether an email address is likely deliverable.
//
// It combines RFC-5321 syntax validation, DNS MX resolution, and a full SMTP
// conversation against the recipient's mail exchanger, augmented by
// provider-specific fast paths for mail hosts whose MX servers refuse to
// cooperate with SMTP-based verification. It also classifies the address
// (disposable, free provider, known provider family) and can optionally
// suggest a corrected domain for likely typos and fetch WHOIS registration
// data for the domain.
//
// Verify is the single entry point:
//
//	v := verifier.New()
//	result, err := v.Verify(ctx, "person@example.com")
//
// Verify never returns a nil *VerificationResult on success; reachability, error kinds,
// and nested sub-results together tell the caller everything it needs.
package verifier
