package verifier

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Verifier is the single entry point (spec.md §6). It owns no per-call
// state; every field is a reusable collaborator safe for concurrent Verify
// calls.
type Verifier struct {
	Options Options

	mx       *MXResolver
	misc     *MiscClassifier
	prober   *PortProber
	suggest  *DomainSuggester
	whois    *WHOISLookup
	limiters *providerLimiters
}

// New builds a Verifier with DefaultOptions. Use NewWithOptions to
// customize before the first call.
func New() *Verifier {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions builds a Verifier wiring every collaborator to the shared
// cache instance in opts.
func NewWithOptions(opts Options) *Verifier {
	return &Verifier{
		Options:  opts,
		mx:       NewMXResolver(opts.Cache, 5*time.Second),
		misc:     NewMiscClassifier(opts.Cache),
		prober:   NewPortProber(opts.Cache),
		suggest:  NewDomainSuggester(opts.Cache),
		whois:    NewWHOISLookup(opts.Cache),
		limiters: newProviderLimiters(),
	}
}

// Verify runs the full C10 pipeline against one address.
func (v *Verifier) Verify(ctx context.Context, emailAddress string) (*VerificationResult, error) {
	if emailAddress == "" {
		return nil, ErrEmailRequired
	}
	if err := v.Options.validateSMTP(); err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, v.Options.Timeout)
	defer cancel()

	// Phase 1: syntax.
	syntax := ParseAddress(emailAddress)
	if !syntax.Valid {
		return &VerificationResult{
			Address:      Address{Raw: emailAddress},
			Reachability: ReachabilityInvalid,
			ErrorKind:    syntax.ErrKind,
			DurationMS:   time.Since(start).Milliseconds(),
		}, nil
	}
	addr := NewAddress(emailAddress, syntax)

	// Strict-mode enrichment of C2: reject a structurally valid address
	// whose TLD is not a recognized generic or country-code TLD, opt-in
	// only (spec.md's structural grammar never requires this on its own).
	if v.Options.StrictTLD && !TopLevelDomainExists(addr.Domain) {
		return &VerificationResult{
			Address:      addr,
			Reachability: ReachabilityInvalid,
			ErrorKind:    ErrKindBadDomain,
			DurationMS:   time.Since(start).Milliseconds(),
		}, nil
	}

	// Phase 2: misc + MX in parallel (spec.md §4.10 step 2).
	var mxLookup MXLookup
	var miscResult MiscResult

	g, gctx := errgroup.WithContext(ctx)
	if v.Options.VerifyMX {
		g.Go(func() error {
			mxLookup = v.mx.Resolve(gctx, addr.Domain)
			return nil
		})
	}
	if v.Options.CheckDisposable || v.Options.CheckFree {
		g.Go(func() error {
			miscResult = v.misc.Classify(addr.Local, addr.Domain)
			return nil
		})
	}
	_ = g.Wait() // sub-tasks never return an error; they record results directly

	if ctx.Err() != nil {
		return &VerificationResult{
			Address:      addr,
			Reachability: ReachabilityUnknown,
			ErrorKind:    ErrKindCancelled,
			DurationMS:   time.Since(start).Milliseconds(),
		}, nil
	}

	// Phase 3: provider classify.
	var providerTag ProviderTag
	if v.Options.VerifyMX && mxLookup.HasRecords {
		providerTag = ClassifyProvider(mxLookup.Hosts()[0])
	} else {
		providerTag = ClassifyProviderByDomain(addr.Domain)
	}

	misc := &MiscFacts{
		Disposable:  miscResult.Disposable,
		Free:        miscResult.Free,
		RoleAccount: miscResult.RoleAccount,
		Provider:    providerTag,
	}

	result := &VerificationResult{Address: addr, MiscFacts: misc}
	if v.Options.VerifyMX {
		result.MXLookup = &mxLookup
	}

	if v.Options.EnableDomainSuggest {
		sug := v.suggest.Suggest(addr.Domain)
		result.Suggestion = &sug
	}
	if v.Options.EnableWHOIS {
		w := v.whois.Lookup(addr.Domain)
		result.WHOIS = &w
	}

	// Short-circuit: MX failed or absent, no SMTP path is reachable.
	if v.Options.VerifyMX && (mxLookup.ErrKind != "" || !mxLookup.HasRecords) {
		reach, kind := computeReachability(syntax, &mxLookup, false, nil, misc)
		result.Reachability = reach
		result.ErrorKind = kind
		result.DurationMS = time.Since(start).Milliseconds()
		return result, nil
	}

	// Phase 4: branch — provider side-channel or SMTP.
	var smtpOutcome *SMTPOutcome
	if v.Options.VerifySMTP || v.sideChannelApplicable(providerTag) {
		outcome := v.runDeliverabilityCheck(ctx, addr, providerTag, mxLookup)
		smtpOutcome = &outcome
		result.SMTPOutcome = smtpOutcome
	}

	reach, kind := computeReachability(syntax, result.MXLookup, v.Options.VerifySMTP || smtpOutcome != nil, smtpOutcome, misc)
	result.Reachability = reach
	result.ErrorKind = kind
	result.DurationMS = time.Since(start).Milliseconds()
	return result, nil
}

// sideChannelApplicable reports whether a provider side-channel should run
// instead of (or before) a direct SMTP attempt, per spec.md §4.9's final
// paragraph.
func (v *Verifier) sideChannelApplicable(tag ProviderTag) bool {
	return tag == ProviderYahoo && (v.Options.UseYahooAPI || v.Options.UseYahooHeadless)
}

func (v *Verifier) runDeliverabilityCheck(ctx context.Context, addr Address, tag ProviderTag, mx MXLookup) SMTPOutcome {
	if tag == ProviderYahoo && v.Options.UseYahooAPI {
		probe, err := NewYahooHTTPProbe()
		if err != nil {
			return SMTPOutcome{ErrKind: ErrKindHTTPProbeError, RawReplyOrErr: err.Error()}
		}
		return probe.Probe(addr.Local, addr.Domain).ToSMTPOutcome()
	}

	if tag == ProviderYahoo && v.Options.UseYahooHeadless && v.Options.HeadlessRemoteURL != "" {
		runner, err := NewWebDriverRunner(v.Options.HeadlessRemoteURL)
		if err != nil {
			return SMTPOutcome{ErrKind: ErrKindHeadlessScriptError, RawReplyOrErr: err.Error()}
		}
		defer runner.Close()

		script := yahooRecoveryScript(addr.Local, addr.Domain)
		res := runner.Run(script)
		if res.ErrKind != "" {
			return SMTPOutcome{ErrKind: res.ErrKind, ProviderUsed: string(tag)}
		}
		return SMTPOutcome{CanConnect: true, IsDeliverable: res.EmailExists, ProviderUsed: string(tag)}
	}

	if err := v.limiters.wait(ctx, tag); err != nil {
		return SMTPOutcome{ErrKind: ErrKindCancelled}
	}

	opts := v.Options.smtpOptionsFor(tag)
	session := NewSMTPSession(opts, tag)

	hosts := mx.Hosts()
	if len(hosts) == 0 {
		return SMTPOutcome{ErrKind: ErrKindMxNotFound}
	}
	mxHost := hosts[0]

	// Probe the configured port list unconditionally (spec.md §4.7): without
	// this, SMTPSession.attempt only ever dials Ports[0], leaving every
	// later entry in opts.Ports unreachable dead data whenever the default
	// (non-optimized) options are in effect.
	if port, err := v.prober.Probe(ctx, mxHost, opts.Ports, opts.ConnectTimeout); err == nil {
		session.Opts.Ports = []int{port}
	}

	return session.Verify(ctx, addr.Local, addr.Domain, mxHost)
}

// smtpOptionsFor builds SMTPOptions from o, applying provider tuning when
// EnableProviderOptimizations is set (spec.md §4.6's normative table).
func (o Options) smtpOptionsFor(tag ProviderTag) SMTPOptions {
	base := DefaultSMTPOptions()
	base.FromEmail = o.FromEmail
	base.HelloName = o.HelloName
	base.ProxyURI = o.ProxyURI

	if o.EnableProviderOptimizations {
		return TunedSMTPOptions(base, tag)
	}
	return base
}

// yahooRecoveryScript is the WebDriver step script used when the headless
// fallback is selected for a yahoo-tagged address (spec.md §4.9: "each
// provider ... is encoded as a list of steps plus success/error indicator
// strings").
func yahooRecoveryScript(local, domain string) WebDriverScript {
	return WebDriverScript{
		Steps: []WebDriverStep{
			{Kind: StepNavigate, Value: "https://login.yahoo.com/forgot"},
			{Kind: StepType, Selector: "#username", Value: local + "@" + domain},
			{Kind: StepClick, Selector: "#continue-button"},
		},
		SuccessIndicators: []string{"We could not find an account with that email"},
		ErrorIndicators:   []string{"Enter the code", "Select a way to sign in"},
	}
}
