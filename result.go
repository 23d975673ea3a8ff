package verifier

// Reachability is the core's final verdict about an address (spec.md §3).
type Reachability string

const (
	ReachabilitySafe    Reachability = "safe"
	ReachabilityRisky   Reachability = "risky"
	ReachabilityInvalid Reachability = "invalid"
	ReachabilityUnknown Reachability = "unknown"
)

// MiscFacts is the frozen-per-domain output of C5, carried on the result
// alongside the provider tag derived from the winning MX host.
type MiscFacts struct {
	Disposable  bool
	Free        bool
	RoleAccount bool
	Provider    ProviderTag
}

// VerificationResult aggregates every sub-result produced by one Verify
// call. It is immutable once returned: the orchestrator builds it bottom-up
// and hands it off, never mutating it afterward.
type VerificationResult struct {
	Address     Address
	MXLookup    *MXLookup
	SMTPOutcome *SMTPOutcome
	MiscFacts   *MiscFacts
	Suggestion  *DomainSuggestion
	WHOIS       *WHOISResult

	Reachability Reachability
	ErrorKind    ErrorKind
	DurationMS   int64
}

// computeReachability applies the decision table of spec.md §3, top match
// wins.
func computeReachability(syntax Syntax, mx *MXLookup, smtpRequested bool, smtp *SMTPOutcome, misc *MiscFacts) (Reachability, ErrorKind) {
	if !syntax.Valid {
		return ReachabilityInvalid, syntax.ErrKind
	}

	if mx != nil {
		switch mx.ErrKind {
		case ErrKindMxTimeout, ErrKindMxNetwork:
			return ReachabilityUnknown, mx.ErrKind
		}
		if !mx.HasRecords && mx.ErrKind == "" {
			return ReachabilityInvalid, ErrKindMxNotFound
		}
		if mx.ErrKind == ErrKindMxNotFound {
			return ReachabilityInvalid, ErrKindMxNotFound
		}
	}

	if smtpRequested {
		if smtp == nil || !smtp.CanConnect {
			kind := ErrKindConnectTimeout
			if smtp != nil {
				kind = smtp.ErrKind
			}
			return ReachabilityUnknown, kind
		}
	}

	if misc != nil && misc.Disposable {
		return ReachabilityRisky, ""
	}

	if smtpRequested && smtp != nil {
		if !smtp.IsDeliverable {
			return ReachabilityInvalid, smtp.ErrKind
		}
		return ReachabilitySafe, ""
	}

	return ReachabilityUnknown, ""
}
