package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PollInterval != 15*time.Second {
		t.Fatalf("PollInterval = %v, want 15s", cfg.PollInterval)
	}
	if cfg.ConnectTimeout != 10*time.Second {
		t.Fatalf("ConnectTimeout = %v, want 10s", cfg.ConnectTimeout)
	}
	if cfg.UpdateRefreshDelay != 2*time.Second || cfg.CycleRefreshDelay != time.Second {
		t.Fatalf("refresh delays = %v/%v, want 2s/1s", cfg.UpdateRefreshDelay, cfg.CycleRefreshDelay)
	}

	wantLog, err := ExpandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("ExpandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  http://10.0.0.5:8080  "
poll_interval = "30s"
connect_timeout = " 5s "
request_timeout = "3s"
update_refresh_delay = "500ms"
cycle_refresh_delay = "250ms"
log_file = "  ~/logs/aurad.log  "
log_level = "DEBUG"
export_dir = "~/exports"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:8080" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "http://10.0.0.5:8080")
	}
	if cfg.PollInterval != 30*time.Second || cfg.ConnectTimeout != 5*time.Second || cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("durations = %v/%v/%v, want 30s/5s/3s", cfg.PollInterval, cfg.ConnectTimeout, cfg.RequestTimeout)
	}
	if cfg.UpdateRefreshDelay != 500*time.Millisecond || cfg.CycleRefreshDelay != 250*time.Millisecond {
		t.Fatalf("refresh delays = %v/%v", cfg.UpdateRefreshDelay, cfg.CycleRefreshDelay)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "aurad.log") {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !strings.HasPrefix(cfg.ExportDir, home) {
		t.Fatalf("ExportDir = %q, want it under HOME %q", cfg.ExportDir, home)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "   "
poll_interval = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, defaultPollInterval)
	}
}

func TestLoad_RejectsInvalidDurations(t *testing.T) {
	for _, body := range []string{
		`poll_interval = "soon"`,
		`connect_timeout = "-1s"`,
	} {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("Load(%s) returned nil error", body)
		}
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("api_url = {{{"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load returned nil error for invalid TOML")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/x/y")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("ExpandPath = %q, want %q", got, filepath.Join(home, "x", "y"))
	}

	if _, err := ExpandPath("  "); err == nil {
		t.Fatal("ExpandPath(blank) returned nil error")
	}
}
