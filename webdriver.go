package verifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// WebDriverStepKind enumerates the small step vocabulary the generic
// runner understands (spec.md §4.9).
type WebDriverStepKind string

const (
	StepNavigate WebDriverStepKind = "navigate"
	StepWaitFor  WebDriverStepKind = "waitFor"
	StepType     WebDriverStepKind = "type"
	StepClick    WebDriverStepKind = "click"
	StepExecute  WebDriverStepKind = "execute"
)

// WebDriverStep is one instruction in a provider script.
type WebDriverStep struct {
	Kind     WebDriverStepKind
	Selector string // for waitFor/type/click
	Value    string // for navigate (url), type (text), execute (script)
}

// WebDriverScript is a full provider recipe: a list of steps plus the
// success/error indicator strings searched in the page's rendered text.
type WebDriverScript struct {
	Steps            []WebDriverStep
	SuccessIndicators []string
	ErrorIndicators   []string
	CaptureScreenshot bool
}

// WebDriverResult is the outcome of running a script.
type WebDriverResult struct {
	Success     bool
	EmailExists bool
	ErrKind     ErrorKind
	Screenshot  []byte
}

// WebDriverRunner drives a remote W3C WebDriver session over its HTTP JSON
// wire protocol. It is deliberately generic: provider-specific behavior
// lives entirely in the WebDriverScript passed to Run, not in this type.
type WebDriverRunner struct {
	Client     *http.Client
	RemoteURL  string // e.g. http://localhost:4444/wd/hub
	SessionID  string
}

// NewWebDriverRunner opens a new WebDriver session against remoteURL.
func NewWebDriverRunner(remoteURL string) (*WebDriverRunner, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	body, _ := json.Marshal(map[string]any{
		"capabilities": map[string]any{"alwaysMatch": map[string]any{}},
	})
	resp, err := client.Post(strings.TrimRight(remoteURL, "/")+"/session", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("webdriver: new session: %w", err)
	}
	defer resp.Body.Close()

	var parsed struct {
		Value struct {
			SessionID string `json:"sessionId"`
		} `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("webdriver: decode session response: %w", err)
	}

	return &WebDriverRunner{Client: client, RemoteURL: remoteURL, SessionID: parsed.Value.SessionID}, nil
}

// Run executes every step in order, then inspects document.body.innerText
// for the script's success/error indicator strings.
func (w *WebDriverRunner) Run(script WebDriverScript) WebDriverResult {
	for _, step := range script.Steps {
		if err := w.runStep(step); err != nil {
			return WebDriverResult{ErrKind: ErrKindHeadlessScriptError}
		}
	}

	text, err := w.bodyInnerText()
	if err != nil {
		return WebDriverResult{ErrKind: ErrKindHeadlessScriptError}
	}

	result := WebDriverResult{Success: true}
	for _, indicator := range script.ErrorIndicators {
		if strings.Contains(text, indicator) {
			result.EmailExists = true
		}
	}
	for _, indicator := range script.SuccessIndicators {
		if strings.Contains(text, indicator) {
			result.EmailExists = false
		}
	}

	if script.CaptureScreenshot {
		if shot, err := w.screenshot(); err == nil {
			result.Screenshot = shot
		}
	}
	return result
}

// Close tears down the remote session with a DELETE /session/{id} call, the
// counterpart to the POST /session NewWebDriverRunner issues. Callers must
// invoke this once they are done with a runner, or the remote end (a real
// browser instance, typically) stays allocated indefinitely.
func (w *WebDriverRunner) Close() error {
	req, err := http.NewRequest(http.MethodDelete, strings.TrimRight(w.RemoteURL, "/")+"/session/"+w.SessionID, nil)
	if err != nil {
		return err
	}
	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webdriver: session teardown returned %d", resp.StatusCode)
	}
	return nil
}

func (w *WebDriverRunner) runStep(step WebDriverStep) error {
	base := strings.TrimRight(w.RemoteURL, "/") + "/session/" + w.SessionID

	switch step.Kind {
	case StepNavigate:
		return w.post(base+"/url", map[string]any{"url": step.Value})
	case StepWaitFor:
		// Best-effort: poll once for element presence; a production runner
		// would retry with backoff, but the generic contract only promises
		// the element-find call, not a wait loop.
		return w.post(base+"/element", map[string]any{"using": "css selector", "value": step.Selector})
	case StepType:
		el, err := w.findElement(base, step.Selector)
		if err != nil {
			return err
		}
		return w.post(base+"/element/"+el+"/value", map[string]any{"text": step.Value})
	case StepClick:
		el, err := w.findElement(base, step.Selector)
		if err != nil {
			return err
		}
		return w.post(base+"/element/"+el+"/click", map[string]any{})
	case StepExecute:
		return w.post(base+"/execute/sync", map[string]any{"script": step.Value, "args": []any{}})
	default:
		return fmt.Errorf("webdriver: unknown step kind %q", step.Kind)
	}
}

func (w *WebDriverRunner) findElement(base, selector string) (string, error) {
	resp, err := w.Client.Post(base+"/element", "application/json", jsonBody(map[string]any{
		"using": "css selector", "value": selector,
	}))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed struct {
		Value map[string]string `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	for _, id := range parsed.Value {
		return id, nil
	}
	return "", fmt.Errorf("webdriver: element not found: %s", selector)
}

func (w *WebDriverRunner) bodyInnerText() (string, error) {
	base := strings.TrimRight(w.RemoteURL, "/") + "/session/" + w.SessionID
	resp, err := w.Client.Post(base+"/execute/sync", "application/json", jsonBody(map[string]any{
		"script": "return document.body.innerText;", "args": []any{},
	}))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.Value, nil
}

func (w *WebDriverRunner) screenshot() ([]byte, error) {
	base := strings.TrimRight(w.RemoteURL, "/") + "/session/" + w.SessionID
	resp, err := w.Client.Get(base + "/screenshot")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed struct {
		Value string `json:"value"` // base64 PNG
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return []byte(parsed.Value), nil
}

func (w *WebDriverRunner) post(url string, payload map[string]any) error {
	resp, err := w.Client.Post(url, "application/json", jsonBody(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webdriver: %s returned %d", url, resp.StatusCode)
	}
	return nil
}

func jsonBody(v map[string]any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}
