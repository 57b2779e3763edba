package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the aurad settings.
type Config struct {
	APIURL string

	PollInterval   time.Duration
	ConnectTimeout time.Duration
	RequestTimeout time.Duration

	// Delays before the follow-up refresh scheduled after an action.
	UpdateRefreshDelay time.Duration
	CycleRefreshDelay  time.Duration

	LogFile   string
	LogLevel  string
	ExportDir string
}

const (
	defaultConfigPath = "~/.config/aurad/config.toml"
	defaultAPIURL     = "http://127.0.0.1:4943"
	defaultLogFile    = "~/.local/state/aurad/aurad.log"
	defaultLogLevel   = "info"
	defaultExportDir  = "~"

	defaultPollInterval       = 15 * time.Second
	defaultConnectTimeout     = 10 * time.Second
	defaultRequestTimeout     = 8 * time.Second
	defaultUpdateRefreshDelay = 2 * time.Second
	defaultCycleRefreshDelay  = time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:             defaultAPIURL,
		PollInterval:       defaultPollInterval,
		ConnectTimeout:     defaultConnectTimeout,
		RequestTimeout:     defaultRequestTimeout,
		UpdateRefreshDelay: defaultUpdateRefreshDelay,
		CycleRefreshDelay:  defaultCycleRefreshDelay,
		LogFile:            mustExpand(defaultLogFile),
		LogLevel:           defaultLogLevel,
		ExportDir:          mustExpand(defaultExportDir),
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the aurad config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL             string `toml:"api_url"`
		PollInterval       string `toml:"poll_interval"`
		ConnectTimeout     string `toml:"connect_timeout"`
		RequestTimeout     string `toml:"request_timeout"`
		UpdateRefreshDelay string `toml:"update_refresh_delay"`
		CycleRefreshDelay  string `toml:"cycle_refresh_delay"`
		LogFile            string `toml:"log_file"`
		LogLevel           string `toml:"log_level"`
		ExportDir          string `toml:"export_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ExportDir); v != "" {
		cfg.ExportDir = mustExpand(v)
	}

	durations := []struct {
		name  string
		value string
		dest  *time.Duration
	}{
		{"poll_interval", raw.PollInterval, &cfg.PollInterval},
		{"connect_timeout", raw.ConnectTimeout, &cfg.ConnectTimeout},
		{"request_timeout", raw.RequestTimeout, &cfg.RequestTimeout},
		{"update_refresh_delay", raw.UpdateRefreshDelay, &cfg.UpdateRefreshDelay},
		{"cycle_refresh_delay", raw.CycleRefreshDelay, &cfg.CycleRefreshDelay},
	}
	for _, d := range durations {
		if err := parseDuration(d.name, d.value, d.dest); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// parseDuration leaves dest untouched for empty values.
func parseDuration(name, value string, dest *time.Duration) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if d <= 0 {
		return fmt.Errorf("parse %s: must be positive, got %s", name, trimmed)
	}
	*dest = d
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
