package aura

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIURL {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIURL)
	}

	u, err = parseBaseURL("https://gateway.example:8443/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
	if u.Scheme != "https" {
		t.Fatalf("scheme = %q, want https", u.Scheme)
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_FetchesReadEndpoints(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/dashboard":
			_, _ = io.WriteString(w, `{
				"sentiment": {"score": 42.5, "confidence": 0.8, "keywords": ["etf", "rally"], "timestamp": "1700000000000000000"},
				"price": {"price": 12.3456, "change24h": -1.5, "timestamp": 1700000000000000000},
				"status": "idle",
				"lastUpdate": 1700000000000000000
			}`)
		case "/api/logs":
			_, _ = io.WriteString(w, `{"logs": ["1 | first", "2 | second"]}`)
		case "/api/status":
			_, _ = io.WriteString(w, `{"isActive": true, "cycleCount": 7, "logsCount": 2, "lastUpdate": 1700000000000000000}`)
		case "/api/health":
			_, _ = io.WriteString(w, `{"message": "ok"}`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := testContext(t)

	dash, err := c.FetchDashboard(ctx)
	if err != nil {
		t.Fatalf("FetchDashboard returned error: %v", err)
	}
	if dash == nil || dash.Sentiment == nil || dash.Price == nil {
		t.Fatalf("FetchDashboard = %#v, want sentiment and price", dash)
	}
	if dash.Sentiment.Score != 42.5 || len(dash.Sentiment.Keywords) != 2 {
		t.Fatalf("sentiment = %#v, want score 42.5 with 2 keywords", dash.Sentiment)
	}
	if dash.Price.Value != 12.3456 || dash.Price.Change24h != -1.5 {
		t.Fatalf("price = %#v, want 12.3456 / -1.5", dash.Price)
	}
	want := time.Unix(0, 1700000000000000000)
	if !dash.Sentiment.Timestamp.Equal(want) || !dash.LastUpdate.Equal(want) {
		t.Fatalf("timestamps = %v / %v, want %v", dash.Sentiment.Timestamp, dash.LastUpdate, want)
	}

	logs, err := c.FetchLogs(ctx)
	if err != nil {
		t.Fatalf("FetchLogs returned error: %v", err)
	}
	if len(logs) != 2 || logs[0] != "1 | first" {
		t.Fatalf("FetchLogs = %#v, want 2 lines oldest first", logs)
	}

	status, err := c.FetchStatus(ctx)
	if err != nil {
		t.Fatalf("FetchStatus returned error: %v", err)
	}
	if !status.IsActive || status.CycleCount != 7 || status.LogsCount != 2 {
		t.Fatalf("FetchStatus = %#v, want active cycle=7 logs=2", status)
	}

	ack, err := c.Health(ctx)
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if ack != "ok" {
		t.Fatalf("Health = %q, want ok", ack)
	}
}

func TestClient_FetchDashboardNullIsAbsent(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "null")
	})

	dash, err := c.FetchDashboard(testContext(t))
	if err != nil {
		t.Fatalf("FetchDashboard returned error: %v", err)
	}
	if dash != nil {
		t.Fatalf("FetchDashboard = %#v, want nil", dash)
	}
}

func TestClient_NormalizesFailures(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.FetchStatus(testContext(t))
	if err == nil {
		t.Fatal("FetchStatus returned nil error, want failure")
	}
	if err.Error() != "failed to fetch system status" {
		t.Fatalf("error = %q, want generic message", err.Error())
	}
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("error %T is not *Error", err)
	}
	if ae.RequestID == "" {
		t.Fatal("RequestID is empty")
	}
	if ae.Err == nil || !strings.Contains(ae.Err.Error(), "status 500") {
		t.Fatalf("wrapped cause = %v, want status 500 detail", ae.Err)
	}
	if errors.Is(err, ErrRejected) {
		t.Fatal("transport failure should not match ErrRejected")
	}
}

func TestClient_DecodeFailureIsNormalized(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"logs": "not-a-list"`)
	})

	_, err := c.FetchLogs(testContext(t))
	if err == nil || err.Error() != "failed to fetch logs" {
		t.Fatalf("FetchLogs error = %v, want generic failure", err)
	}
}

func TestClient_SetAPIKey(t *testing.T) {
	t.Parallel()

	var calls int
	var gotBody, gotRequestID, gotContentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotRequestID = r.Header.Get("X-Request-Id")
		gotContentType = r.Header.Get("Content-Type")
		if r.Method != http.MethodPost || r.URL.Path != "/api/apikey" {
			http.NotFound(w, r)
			return
		}
		if strings.Contains(gotBody, "bad") {
			_, _ = io.WriteString(w, `{"err": "Invalid API key format"}`)
			return
		}
		_, _ = io.WriteString(w, `{"ok": null}`)
	})
	ctx := testContext(t)

	if err := c.SetAPIKey(ctx, "   "); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("SetAPIKey(blank) error = %v, want ErrEmptyKey", err)
	}
	if calls != 0 {
		t.Fatalf("blank key made %d requests, want 0", calls)
	}

	if err := c.SetAPIKey(ctx, "good-key"); err != nil {
		t.Fatalf("SetAPIKey returned error: %v", err)
	}
	if gotBody != `{"key":"good-key"}` {
		t.Fatalf("request body = %q", gotBody)
	}
	if gotRequestID == "" {
		t.Fatal("X-Request-Id header not set")
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}

	err := c.SetAPIKey(ctx, "bad-key")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("SetAPIKey(bad) error = %v, want ErrRejected", err)
	}
	reason, ok := Reason(err)
	if !ok || reason != "Invalid API key format" {
		t.Fatalf("Reason = %q, %v; want backend reason", reason, ok)
	}
}

func TestClient_ActionsUsePost(t *testing.T) {
	t.Parallel()

	seen := make(map[string]string)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen[r.URL.Path] = r.Method
		switch r.URL.Path {
		case "/api/simulate":
			_, _ = io.WriteString(w, `{"decision": "BUY", "reason": "spread", "score": 0.7}`)
		case "/api/logs/clear":
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = io.WriteString(w, `{"message": "done"}`)
		}
	})
	ctx := testContext(t)

	if msg, err := c.TriggerUpdate(ctx); err != nil || msg != "done" {
		t.Fatalf("TriggerUpdate = %q, %v", msg, err)
	}
	if err := c.ClearLogs(ctx); err != nil {
		t.Fatalf("ClearLogs returned error: %v", err)
	}
	if _, err := c.StartCycle(ctx); err != nil {
		t.Fatalf("StartCycle returned error: %v", err)
	}
	if _, err := c.StopCycle(ctx); err != nil {
		t.Fatalf("StopCycle returned error: %v", err)
	}
	decision, err := c.Simulate(ctx, 3000, 600)
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	if decision.Action != "BUY" || decision.Score != 0.7 {
		t.Fatalf("Simulate = %#v, want BUY/0.7", decision)
	}

	for _, path := range []string{"/api/update", "/api/logs/clear", "/api/cycle/start", "/api/cycle/stop", "/api/simulate"} {
		if seen[path] != http.MethodPost {
			t.Fatalf("%s method = %q, want POST", path, seen[path])
		}
	}
}

func TestClient_ConnectionRefusedIsGeneric(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, WithTimeout(500*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Health(testContext(t))
	if err == nil || err.Error() != "failed to check backend health" {
		t.Fatalf("Health error = %v, want generic failure", err)
	}
}
