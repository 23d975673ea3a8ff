package verifier

import "strings"

// Severity is how permanent a classified SMTP error is judged to be.
type Severity string

const (
	SeverityPermanent Severity = "permanent"
	SeverityTemporary Severity = "temporary"
	SeverityUnknown   Severity = "unknown"
)

// ReplyCategory is the semantic classification of an SMTP reply or
// transport failure (spec.md §4.8).
type ReplyCategory string

const (
	CategoryDisabled    ReplyCategory = "disabled"
	CategoryFullInbox   ReplyCategory = "fullInbox"
	CategoryInvalid     ReplyCategory = "invalid"
	CategoryCatchAll    ReplyCategory = "catchAll"
	CategoryRateLimited ReplyCategory = "rateLimited"
	CategoryBlocked     ReplyCategory = "blocked"
	CategoryTransient   ReplyCategory = "transient"
	CategoryUnknown     ReplyCategory = "unknown"
)

// ReplyClassification is the result of running C8 over a single reply.
type ReplyClassification struct {
	Category      ReplyCategory
	Severity      Severity
	ProviderNote  string
	OuterKind     ErrorKind
}

// ClassifyReply classifies a raw SMTP reply line (or a transport error's
// message, with code 0) in the context of providerTag, implementing the
// ordered rules of spec.md §4.8. Code ranges are grounded on
// DevyanshuNegi-email-validator/worker/smtp_types.go's GetSMTPCodeInfo
// table; the provider overlay is grounded on the trumail forks' parseErr
// substring matching, narrowed per the REDESIGN FLAGS caveat to only scan
// the reply text already scoped to this session's provider/host, never an
// unrelated field.
func ClassifyReply(code int, text string, providerTag ProviderTag) ReplyClassification {
	lower := strings.ToLower(text)

	c := classifyByCodeOrPhrase(code, lower)
	c.OuterKind = outerKindFor(c.Category)
	applyProviderOverlay(&c, lower, providerTag)
	return c
}

func classifyByCodeOrPhrase(code int, lower string) ReplyClassification {
	switch {
	case containsAny(lower, "account disabled", "suspended"):
		return ReplyClassification{Category: CategoryDisabled, Severity: SeverityPermanent}

	case code == 550 || code == 551 || code == 553,
		containsAny(lower, "recipient unknown", "no such user", "mailbox unavailable", "invalid recipient"):
		return ReplyClassification{Category: CategoryInvalid, Severity: SeverityPermanent}

	case code == 452 || code == 552,
		containsAny(lower, "mailbox full", "over quota", "storage limit"):
		return ReplyClassification{Category: CategoryFullInbox, Severity: SeverityTemporary}

	case code == 421 || code == 450 || code == 451,
		containsAny(lower, "rate limit", "try again later", "greylist", "deferred"):
		return ReplyClassification{Category: CategoryRateLimited, Severity: SeverityTemporary}

	case containsAny(lower, "etimedout", "econnrefused", "enotfound", "econnreset", "socket hang up"):
		return ReplyClassification{Category: CategoryTransient, Severity: SeverityTemporary}

	case containsAny(lower, "blocked", "spam", "blacklisted", "rejected by policy"):
		return ReplyClassification{Category: CategoryBlocked, Severity: SeverityPermanent}
	}

	if code >= 200 && code < 300 {
		return ReplyClassification{Category: CategoryUnknown, Severity: SeverityUnknown}
	}
	return ReplyClassification{Category: CategoryUnknown, Severity: SeverityUnknown}
}

func outerKindFor(cat ReplyCategory) ErrorKind {
	switch cat {
	case CategoryDisabled:
		return ErrKindDisabled
	case CategoryInvalid:
		return ErrKindInvalid
	case CategoryFullInbox:
		return ErrKindFullInbox
	case CategoryCatchAll:
		return ErrKindCatchAll
	case CategoryRateLimited:
		return ErrKindRateLimited
	case CategoryBlocked:
		return ErrKindBlocked
	case CategoryTransient:
		return ErrKindConnectReset
	default:
		return ErrKindUnknownReply
	}
}

// applyProviderOverlay annotates a classification with a provider-specific
// note. It never downgrades severity; it only adds a hint when the reply
// text mentions the expected provider terms, scoped to this session's
// already-known providerTag.
func applyProviderOverlay(c *ReplyClassification, lower string, tag ProviderTag) {
	switch tag {
	case ProviderGmail:
		if containsAny(lower, "g-smtp", "google", "gmail") {
			c.ProviderNote = "gmail-specific"
		}
	case ProviderYahoo:
		if containsAny(lower, "yahoo", "ymail") {
			c.ProviderNote = "yahoo-specific"
		}
	case ProviderHotmailB2C, ProviderHotmailB2B:
		if containsAny(lower, "outlook", "hotmail", "protection.outlook") {
			c.ProviderNote = "hotmail-specific"
		}
	case ProviderProofpoint:
		if strings.Contains(lower, "proofpoint") {
			c.ProviderNote = "proofpoint-specific"
		}
	case ProviderMimecast:
		if strings.Contains(lower, "mimecast") {
			c.ProviderNote = "mimecast-specific"
		}
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// IsRetryable reports whether a reply with the given code should be retried
// within the same session's transport-retry policy (spec.md §4.6: "4xx
// replies are considered retryable; 5xx are terminal for that attempt").
func IsRetryable(code int) bool {
	return code >= 400 && code < 500
}
