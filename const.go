package verifier

import "time"

// Defaults mirrored from spec.md §6. The shorter of the source's two
// historical timeout defaults is normative here (see DESIGN.md's Open
// Question decisions).
const (
	defaultFromEmail = "test@example.com"
	defaultHelloName = "example.com"

	defaultOverallTimeout = 5 * time.Second
	maxOverallTimeout     = 10 * time.Second

	defaultBatchConcurrency = 5

	// catchAllLocalLength is the length of the random local part used to
	// probe for catch-all acceptance (spec.md §4.6).
	catchAllLocalLength = 15
)

// smtpTuning is the provider-tuned defaults table from spec.md §4.6.
type smtpTuning struct {
	ports          []int
	connectTimeout time.Duration
	retries        int
	startTLS       bool
}

var providerTuning = map[ProviderTag]smtpTuning{
	ProviderGmail: {
		ports:          []int{587, 465, 25},
		connectTimeout: 15 * time.Second,
		retries:        1,
		startTLS:       true,
	},
	ProviderYahoo: {
		ports:          []int{587, 25},
		connectTimeout: 20 * time.Second,
		retries:        2,
		startTLS:       true,
	},
	ProviderHotmailB2C: {
		ports:          []int{587, 25},
		connectTimeout: 15 * time.Second,
		retries:        2,
		startTLS:       true,
	},
	ProviderHotmailB2B: {
		ports:          []int{587, 25},
		connectTimeout: 15 * time.Second,
		retries:        2,
		startTLS:       true,
	},
	ProviderProofpoint: {
		ports:          []int{25, 587},
		connectTimeout: 20 * time.Second,
		retries:        2,
		startTLS:       true,
	},
	ProviderMimecast: {
		ports:          []int{25, 587},
		connectTimeout: 20 * time.Second,
		retries:        2,
		startTLS:       true,
	},
	ProviderEverythingElse: {
		ports:          []int{25, 587},
		connectTimeout: 10 * time.Second,
		retries:        2,
		startTLS:       true, // opportunistic: only when offered in EHLO
	},
}

func tuningFor(tag ProviderTag) smtpTuning {
	if t, ok := providerTuning[tag]; ok {
		return t
	}
	return providerTuning[ProviderEverythingElse]
}
