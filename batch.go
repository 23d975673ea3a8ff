package verifier

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// BatchSummary counts outcomes across a batch run (spec.md §4.11).
type BatchSummary struct {
	Total      int
	Valid      int
	Invalid    int
	Errors     int
	WallClock  time.Duration
}

// BatchResult is the full output of a batch verification: one
// VerificationResult per input, keyed by the original input string, plus a
// summary.
type BatchResult struct {
	Results map[string]*VerificationResult
	Summary BatchSummary
}

// providerLimiters throttles per-provider SMTP attempts across a batch,
// grounded on DevyanshuNegi-email-validator/worker/ratelimiter.go's
// RateLimiterManager (global + per-domain limiters, created on demand for
// domains with no explicit entry).
type providerLimiters struct {
	mu       sync.Mutex
	limiters map[ProviderTag]*rate.Limiter
}

func newProviderLimiters() *providerLimiters {
	return &providerLimiters{
		limiters: map[ProviderTag]*rate.Limiter{
			ProviderGmail:          rate.NewLimiter(rate.Limit(2), 2),
			ProviderYahoo:          rate.NewLimiter(rate.Limit(1), 1),
			ProviderHotmailB2C:     rate.NewLimiter(rate.Limit(1), 1),
			ProviderHotmailB2B:     rate.NewLimiter(rate.Limit(1), 1),
			ProviderEverythingElse: rate.NewLimiter(rate.Limit(5), 5),
		},
	}
}

func (p *providerLimiters) wait(ctx context.Context, tag ProviderTag) error {
	p.mu.Lock()
	lim, ok := p.limiters[tag]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(5), 5)
		p.limiters[tag] = lim
	}
	p.mu.Unlock()
	return lim.Wait(ctx)
}

// VerifyBatch runs N workers pulling from a shared queue of addresses, each
// performing a full Verify call (spec.md §4.11). Every input produces
// exactly one result; a panic or error in one worker never affects others.
func (v *Verifier) VerifyBatch(ctx context.Context, addresses []string, concurrency int) BatchResult {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}

	start := time.Now()
	jobs := make(chan string)
	resultsCh := make(chan struct {
		input string
		res   *VerificationResult
		err   error
	}, len(addresses))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for input := range jobs {
				res, err := v.verifyOneSafely(ctx, input)
				resultsCh <- struct {
					input string
					res   *VerificationResult
					err   error
				}{input, res, err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		// Every input is queued even after ctx is done: Verify itself returns
		// a cancelled result quickly, so each input still gets one entry.
		for _, addr := range addresses {
			jobs <- addr
		}
	}()

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	out := BatchResult{Results: make(map[string]*VerificationResult, len(addresses))}
	for r := range resultsCh {
		out.Summary.Total++
		if r.err != nil {
			out.Summary.Errors++
			out.Results[r.input] = &VerificationResult{
				Address:      Address{Raw: r.input},
				Reachability: ReachabilityUnknown,
				ErrorKind:    errToKind(r.err),
			}
			continue
		}
		out.Results[r.input] = r.res
		switch r.res.Reachability {
		case ReachabilityInvalid:
			out.Summary.Invalid++
		case ReachabilitySafe, ReachabilityRisky:
			out.Summary.Valid++
		}
	}
	out.Summary.WallClock = time.Since(start)
	return out
}

// errToKind maps the construction-time sentinel errors Verify can return
// (empty input, invalid SMTP options) into the ErrorKind taxonomy so a
// batch's error entries carry a structured cause like every other result.
func errToKind(err error) ErrorKind {
	return ErrKindInvalidInput
}

// verifyOneSafely isolates one worker's verification from a panic in
// downstream code (a misbehaving collaborator, a third-party library bug)
// so a single crash can never bring down the whole batch.
func (v *Verifier) verifyOneSafely(ctx context.Context, input string) (res *VerificationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = &VerificationResult{
				Address:      Address{Raw: input},
				Reachability: ReachabilityUnknown,
				ErrorKind:    ErrKindUnknownReply,
			}
			err = nil
		}
	}()
	return v.Verify(ctx, input)
}
