package verifier

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// yahooLandingURL and yahooRegistrationURL are the two endpoints the Yahoo
// HTTP probe exercises (spec.md §4.9): a landing-page GET on yahooLandingURL
// that seeds cookies, then a POST to yahooRegistrationURL that runs the same account-availability check Yahoo's
// own signup form uses.
const (
	yahooRegistrationURL = "https://login.yahoo.com/account/module/create?validateField=yid"
	yahooLandingURL       = "https://login.yahoo.com/account/create"
)

// YahooProbeResult is the outcome of the Yahoo HTTP side-channel.
type YahooProbeResult struct {
	Deliverable bool
	ErrKind     ErrorKind
	RawBody     string
}

// YahooHTTPProbe runs the Yahoo consumer-account HTTP probe described in
// spec.md §4.9. It is used only when providerTag=yahoo and the caller opts
// in via useYahooApi.
type YahooHTTPProbe struct {
	Client *http.Client
}

// NewYahooHTTPProbe builds a probe with its own cookie jar, since the
// landing-page GET must seed cookies carried into the POST.
func NewYahooHTTPProbe() (*YahooHTTPProbe, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo probe: cookie jar: %w", err)
	}
	return &YahooHTTPProbe{Client: &http.Client{Jar: jar, Timeout: 15 * time.Second}}, nil
}

// yahooValidateResponse models the small slice of the JSON body the probe
// actually reads. Yahoo's real response carries more fields; everything
// else is ignored.
type yahooValidateResponse struct {
	Errors []struct {
		Name string `json:"name"`
	} `json:"errors"`
}

// Probe fetches the landing page to seed cookies, then POSTs the username
// as the yid form field to the validate-field endpoint. The domain argument
// is not sent, so the check is against Yahoo's single id namespace whatever
// the address's domain is. Presence of
// IDENTIFIER_NOT_AVAILABLE, IDENTIFIER_ALREADY_EXISTS, or IDENTIFIER_EXISTS
// means the account exists; absence means the id is available, i.e. not
// deliverable.
func (y *YahooHTTPProbe) Probe(username, domain string) YahooProbeResult {
	if _, err := y.Client.Get(yahooLandingURL); err != nil {
		return YahooProbeResult{ErrKind: ErrKindHTTPProbeError}
	}

	form := "yid=" + username
	req, err := http.NewRequest(http.MethodPost, yahooRegistrationURL, strings.NewReader(form))
	if err != nil {
		return YahooProbeResult{ErrKind: ErrKindHTTPProbeError}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := y.Client.Do(req)
	if err != nil {
		return YahooProbeResult{ErrKind: ErrKindHTTPProbeError}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return YahooProbeResult{ErrKind: ErrKindHTTPProbeError}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return YahooProbeResult{ErrKind: ErrKindHTTPProbeError}
	}

	var parsed yahooValidateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return YahooProbeResult{ErrKind: ErrKindHTTPProbeError, RawBody: string(body)}
	}

	for _, e := range parsed.Errors {
		if e.Name == "IDENTIFIER_NOT_AVAILABLE" || e.Name == "IDENTIFIER_ALREADY_EXISTS" || e.Name == "IDENTIFIER_EXISTS" {
			return YahooProbeResult{Deliverable: true, RawBody: string(body)}
		}
	}
	return YahooProbeResult{Deliverable: false, RawBody: string(body)}
}

// ToSMTPOutcome converts a Yahoo probe result into the SMTPOutcome shape the
// orchestrator expects from every verification path, with providerUsed set
// per spec.md §4.10 step 4.
func (r YahooProbeResult) ToSMTPOutcome() SMTPOutcome {
	if r.ErrKind != "" {
		return SMTPOutcome{ProviderUsed: string(ProviderYahoo), ErrKind: r.ErrKind, RawReplyOrErr: r.RawBody}
	}
	return SMTPOutcome{
		CanConnect:    true,
		IsDeliverable: r.Deliverable,
		ProviderUsed:  string(ProviderYahoo),
		RawReplyOrErr: r.RawBody,
	}
}
