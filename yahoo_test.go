package verifier

import (
	"testing"

	gock "gopkg.in/h2non/gock.v1"
)

func TestYahooHTTPProbeAccountExists(t *testing.T) {
	defer gock.Off()

	gock.New("https://login.yahoo.com").
		Get("/account/create").
		Reply(200).
		BodyString("<html></html>")

	gock.New("https://login.yahoo.com").
		Post("/account/module/create").
		Reply(200).
		JSON(map[string]any{
			"errors": []map[string]string{
				{"name": "IDENTIFIER_ALREADY_EXISTS"},
			},
		})

	probe, err := NewYahooHTTPProbe()
	if err != nil {
		t.Fatalf("unexpected error building probe: %v", err)
	}
	gock.InterceptClient(probe.Client)
	defer gock.RestoreClient(probe.Client)

	res := probe.Probe("someone", "yahoo.com")
	if res.ErrKind != "" {
		t.Fatalf("unexpected error kind: %v", res.ErrKind)
	}
	if !res.Deliverable {
		t.Fatal("expected deliverable=true when IDENTIFIER_ALREADY_EXISTS is present")
	}
}

func TestYahooHTTPProbeAccountExistsAlternateErrorName(t *testing.T) {
	defer gock.Off()

	gock.New("https://login.yahoo.com").
		Get("/account/create").
		Reply(200).
		BodyString("<html></html>")

	gock.New("https://login.yahoo.com").
		Post("/account/module/create").
		Reply(200).
		JSON(map[string]any{
			"errors": []map[string]string{
				{"name": "IDENTIFIER_EXISTS"},
			},
		})

	probe, err := NewYahooHTTPProbe()
	if err != nil {
		t.Fatalf("unexpected error building probe: %v", err)
	}
	gock.InterceptClient(probe.Client)
	defer gock.RestoreClient(probe.Client)

	res := probe.Probe("someone", "yahoo.com")
	if res.ErrKind != "" {
		t.Fatalf("unexpected error kind: %v", res.ErrKind)
	}
	if !res.Deliverable {
		t.Fatal("expected deliverable=true when IDENTIFIER_EXISTS is present")
	}
}

func TestYahooHTTPProbeAccountAvailable(t *testing.T) {
	defer gock.Off()

	gock.New("https://login.yahoo.com").
		Get("/account/create").
		Reply(200).
		BodyString("<html></html>")

	gock.New("https://login.yahoo.com").
		Post("/account/module/create").
		Reply(200).
		JSON(map[string]any{"errors": []map[string]string{}})

	probe, err := NewYahooHTTPProbe()
	if err != nil {
		t.Fatalf("unexpected error building probe: %v", err)
	}
	gock.InterceptClient(probe.Client)
	defer gock.RestoreClient(probe.Client)

	res := probe.Probe("someone", "yahoo.com")
	if res.Deliverable {
		t.Fatal("expected deliverable=false when no identifier errors are present")
	}
}

func TestYahooHTTPProbeNon2xx(t *testing.T) {
	defer gock.Off()

	gock.New("https://login.yahoo.com").
		Get("/account/create").
		Reply(200).
		BodyString("<html></html>")

	gock.New("https://login.yahoo.com").
		Post("/account/module/create").
		Reply(503)

	probe, err := NewYahooHTTPProbe()
	if err != nil {
		t.Fatalf("unexpected error building probe: %v", err)
	}
	gock.InterceptClient(probe.Client)
	defer gock.RestoreClient(probe.Client)

	res := probe.Probe("someone", "yahoo.com")
	if res.ErrKind != ErrKindHTTPProbeError {
		t.Fatalf("expected http probe error kind, got %v", res.ErrKind)
	}
}

func TestYahooProbeResultToSMTPOutcome(t *testing.T) {
	ok := YahooProbeResult{Deliverable: true}.ToSMTPOutcome()
	if !ok.CanConnect || !ok.IsDeliverable || ok.ProviderUsed != string(ProviderYahoo) {
		t.Fatalf("unexpected outcome: %#v", ok)
	}

	failed := YahooProbeResult{ErrKind: ErrKindHTTPProbeError}.ToSMTPOutcome()
	if failed.ErrKind != ErrKindHTTPProbeError {
		t.Fatalf("unexpected outcome: %#v", failed)
	}
}
