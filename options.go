package verifier

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reachmail/verifier/cache"
)

// Options configures a Verifier. Construct with DefaultOptions and
// customize via the With* setters, mirroring the teacher's fluent
// *Verifier builder while keeping the struct itself immutable-by-value —
// every With* setter returns a new Options rather than mutating in place.
type Options struct {
	Timeout time.Duration

	VerifyMX        bool
	VerifySMTP      bool
	CheckDisposable bool
	CheckFree       bool

	FromEmail string
	HelloName string

	EnableProviderOptimizations bool
	UseYahooAPI                 bool
	UseYahooHeadless            bool
	HeadlessRemoteURL           string

	EnableDomainSuggest bool
	EnableWHOIS         bool
	StrictTLD           bool

	ProxyURI string

	Cache cache.Cache
	Log   *logrus.Logger
	Debug bool
}

// DefaultOptions mirrors spec.md §6's table: MX verification and the
// disposable/free checks on by default, SMTP and every opt-in enrichment
// off, a 5 s overall deadline (the shorter of the two historical defaults;
// see DESIGN.md's Open Question decisions).
func DefaultOptions() Options {
	return Options{
		Timeout:         defaultOverallTimeout,
		VerifyMX:        true,
		VerifySMTP:      false,
		CheckDisposable: true,
		CheckFree:       true,
		FromEmail:       defaultFromEmail,
		HelloName:       defaultHelloName,
		Cache:           cache.NewLRU(10000),
		Log:             logrus.StandardLogger(),
	}
}

func (o Options) WithTimeout(d time.Duration) Options {
	if d > maxOverallTimeout {
		d = maxOverallTimeout
	}
	o.Timeout = d
	return o
}

func (o Options) WithSMTP(enabled bool) Options {
	o.VerifySMTP = enabled
	return o
}

func (o Options) WithMX(enabled bool) Options {
	o.VerifyMX = enabled
	return o
}

func (o Options) WithFromEmail(email string) Options {
	o.FromEmail = email
	return o
}

func (o Options) WithHelloName(name string) Options {
	o.HelloName = name
	return o
}

func (o Options) WithProviderOptimizations(enabled bool) Options {
	o.EnableProviderOptimizations = enabled
	return o
}

func (o Options) WithYahooAPI(enabled bool) Options {
	o.UseYahooAPI = enabled
	return o
}

func (o Options) WithYahooHeadless(remoteURL string) Options {
	o.UseYahooHeadless = remoteURL != ""
	o.HeadlessRemoteURL = remoteURL
	return o
}

func (o Options) WithDomainSuggest(enabled bool) Options {
	o.EnableDomainSuggest = enabled
	return o
}

func (o Options) WithWHOIS(enabled bool) Options {
	o.EnableWHOIS = enabled
	return o
}

func (o Options) WithStrictTLD(enabled bool) Options {
	o.StrictTLD = enabled
	return o
}

func (o Options) WithProxy(uri string) Options {
	o.ProxyURI = uri
	return o
}

func (o Options) WithCache(c cache.Cache) Options {
	o.Cache = c
	return o
}

func (o Options) WithDebug(enabled bool) Options {
	o.Debug = enabled
	return o
}

func (o Options) validateSMTP() error {
	if o.VerifySMTP && (o.HelloName == "" || o.FromEmail == "") {
		return ErrInvalidSMTPOptions
	}
	return nil
}
