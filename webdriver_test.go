package verifier

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeWebDriverServer implements just enough of the W3C WebDriver HTTP
// wire protocol to drive WebDriverRunner's generic step interpreter: new
// session, navigate, find element, type, click, execute script.
func fakeWebDriverServer(t *testing.T, bodyText string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"value": map[string]any{"sessionId": "sess-1"}})
	})
	mux.HandleFunc("/session/sess-1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"value": nil})
	})
	mux.HandleFunc("/session/sess-1/url", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"value": nil})
	})
	mux.HandleFunc("/session/sess-1/element", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"value": map[string]string{"element-6066-11e4-a52e-4f735466cecf": "el-1"}})
	})
	mux.HandleFunc("/session/sess-1/element/el-1/value", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"value": nil})
	})
	mux.HandleFunc("/session/sess-1/element/el-1/click", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"value": nil})
	})
	mux.HandleFunc("/session/sess-1/execute/sync", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"value": bodyText})
	})
	mux.HandleFunc("/session/sess-1/screenshot", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"value": "iVBORw0KGgo="})
	})

	return httptest.NewServer(mux)
}

func TestWebDriverRunnerSuccessIndicator(t *testing.T) {
	srv := fakeWebDriverServer(t, "We could not find an account with that email")
	defer srv.Close()

	runner, err := NewWebDriverRunner(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error creating runner: %v", err)
	}

	script := WebDriverScript{
		Steps: []WebDriverStep{
			{Kind: StepNavigate, Value: srv.URL + "/recover"},
			{Kind: StepType, Selector: "#email", Value: "someone@example.com"},
			{Kind: StepClick, Selector: "#submit"},
		},
		SuccessIndicators: []string{"We could not find an account"},
		ErrorIndicators:   []string{"Enter the code"},
	}

	result := runner.Run(script)
	if !result.Success {
		t.Fatal("expected overall success")
	}
	if result.EmailExists {
		t.Fatal("expected emailExists=false when success indicator matched")
	}
}

func TestWebDriverRunnerErrorIndicatorMeansEmailExists(t *testing.T) {
	srv := fakeWebDriverServer(t, "Enter the code we sent to your phone")
	defer srv.Close()

	runner, err := NewWebDriverRunner(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error creating runner: %v", err)
	}

	script := WebDriverScript{
		Steps: []WebDriverStep{
			{Kind: StepNavigate, Value: srv.URL + "/recover"},
		},
		SuccessIndicators: []string{"We could not find an account"},
		ErrorIndicators:   []string{"Enter the code"},
	}

	result := runner.Run(script)
	if !result.EmailExists {
		t.Fatal("expected emailExists=true when error indicator matched")
	}
}

func TestWebDriverRunnerClose(t *testing.T) {
	srv := fakeWebDriverServer(t, "irrelevant")
	defer srv.Close()

	runner, err := NewWebDriverRunner(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error creating runner: %v", err)
	}
	if err := runner.Close(); err != nil {
		t.Fatalf("unexpected error tearing down session: %v", err)
	}
}

func TestWebDriverRunnerScreenshotCapture(t *testing.T) {
	srv := fakeWebDriverServer(t, "irrelevant")
	defer srv.Close()

	runner, err := NewWebDriverRunner(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error creating runner: %v", err)
	}

	script := WebDriverScript{CaptureScreenshot: true}
	result := runner.Run(script)
	if len(result.Screenshot) == 0 {
		t.Fatal("expected screenshot bytes to be captured")
	}
}
