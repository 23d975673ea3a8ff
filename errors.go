package verifier

import "errors"

// ErrorKind is a closed taxonomy of the ways a verification can fail short
// of a definitive reachability verdict. It is carried on VerificationResult and on the
// nested MXLookup/SMTPOutcome sub-results so a caller can branch on the
// precise failure without parsing error strings.
type ErrorKind string

const (
	// Input/syntax errors (C2).
	ErrKindNotAString    ErrorKind = "not_a_string"
	ErrKindMissingAt     ErrorKind = "missing_at"
	ErrKindLocalTooLong  ErrorKind = "local_too_long"
	ErrKindDomainTooLong ErrorKind = "domain_too_long"
	ErrKindBadLocal      ErrorKind = "bad_local"
	ErrKindBadDomain     ErrorKind = "bad_domain"
	ErrKindInvalidInput  ErrorKind = "invalid_input"

	// DNS errors (C3).
	ErrKindMxTimeout  ErrorKind = "mx_timeout"
	ErrKindMxNotFound ErrorKind = "mx_not_found"
	ErrKindMxNetwork  ErrorKind = "mx_network"

	// Transport errors (C6).
	ErrKindConnectTimeout ErrorKind = "connect_timeout"
	ErrKindConnectRefused ErrorKind = "connect_refused"
	ErrKindConnectReset   ErrorKind = "connect_reset"
	ErrKindTLSFailure     ErrorKind = "tls_failure"
	ErrKindReadTimeout    ErrorKind = "read_timeout"
	ErrKindWriteFailure   ErrorKind = "write_failure"
	ErrKindCancelled      ErrorKind = "cancelled"

	// SMTP semantic errors (C8).
	ErrKindDisabled     ErrorKind = "disabled"
	ErrKindInvalid      ErrorKind = "invalid"
	ErrKindFullInbox    ErrorKind = "full_inbox"
	ErrKindCatchAll     ErrorKind = "catch_all"
	ErrKindRateLimited  ErrorKind = "rate_limited"
	ErrKindBlocked      ErrorKind = "blocked"
	ErrKindUnknownReply ErrorKind = "unknown_reply"

	// Provider side-channel errors (C9).
	ErrKindHTTPProbeError     ErrorKind = "http_probe_error"
	ErrKindHeadlessScriptError ErrorKind = "headless_script_error"
)

// Sentinel errors returned by programmer-error conditions (missing required
// options) or surfaced when a non-nil error must accompany a nil result.
// Per spec.md §7, the core never throws across the Verify boundary for
// anything other than these construction-time mistakes.
var (
	ErrEmailRequired      = errors.New("verifier: emailAddress is required")
	ErrInvalidSMTPOptions = errors.New("verifier: smtp options require HelloName and FromEmail")
	ErrNoSuchHost         = errors.New("verifier: no such host")
)
