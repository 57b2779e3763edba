package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type gateway struct {
	mu     sync.Mutex
	gotKey string
}

func (g *gateway) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"healthy"}`))
	})
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"isActive":true,"cycleCount":1234,"logsCount":5,"lastUpdate":"0"}`))
	})
	mux.HandleFunc("/api/logs", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"logs":["1700000000000000001 | 🔄 Starting cycle","1700000000000000002 | ❌ Price fetch failed"]}`))
	})
	mux.HandleFunc("/api/apikey", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		g.mu.Lock()
		g.gotKey = string(body)
		g.mu.Unlock()
		if strings.Contains(string(body), "bad") {
			_, _ = w.Write([]byte(`{"err":"Invalid API key format"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":"stored"}`))
	})
	return mux
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := newRootCmd()
	root.SetArgs(args)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return out.String(), err
}

func newGateway(t *testing.T) (*gateway, string) {
	t.Helper()
	g := &gateway{}
	srv := httptest.NewServer(g.handler(t))
	t.Cleanup(srv.Close)
	return g, srv.URL
}

func TestHealthCommand(t *testing.T) {
	_, url := newGateway(t)

	out, err := execute(t, "", "--api", url, "health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if !strings.Contains(out, "✓ healthy") {
		t.Fatalf("health output = %q", out)
	}
}

func TestHealthCommandUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := execute(t, "", "--api", url, "health"); err == nil {
		t.Fatal("expected error for unreachable backend")
	}
}

func TestStatusCommand(t *testing.T) {
	_, url := newGateway(t)

	out, err := execute(t, "", "--api", url, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"active", "1,234", "never"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestLogsCommandLimit(t *testing.T) {
	_, url := newGateway(t)

	out, err := execute(t, "", "--api", url, "logs", "-n", "1")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "error") || !strings.Contains(lines[0], "Price fetch failed") {
		t.Fatalf("logs line = %q", lines[0])
	}
}

func TestSetKeyFromStdin(t *testing.T) {
	g, url := newGateway(t)

	out, err := execute(t, "secret-key\n", "--api", url, "set-key")
	if err != nil {
		t.Fatalf("set-key: %v", err)
	}
	if !strings.Contains(out, "API key updated successfully") {
		t.Fatalf("set-key output = %q", out)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !strings.Contains(g.gotKey, `"secret-key"`) {
		t.Fatalf("backend got %q", g.gotKey)
	}
}

func TestSetKeyRejectionReason(t *testing.T) {
	_, url := newGateway(t)

	_, err := execute(t, "", "--api", url, "set-key", "bad-key")
	if err == nil {
		t.Fatal("expected rejection")
	}
	if err.Error() != "Invalid API key format" {
		t.Fatalf("error = %q, want backend reason", err.Error())
	}
}

func TestSetKeyBlank(t *testing.T) {
	_, url := newGateway(t)

	if _, err := execute(t, "\n", "--api", url, "set-key"); err == nil {
		t.Fatal("expected error for blank key")
	}
}
