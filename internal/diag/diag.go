// Package diag provides the developer-facing diagnostic log for aurad.
//
// The TUI owns the terminal, so diagnostics are written as JSON lines to a
// file instead of stdout. Every component gets a child logger tagged with
// its name.
package diag

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls where and how much is logged.
type Config struct {
	Level      string
	Debug      bool
	File       string
	TimeFormat string
}

// Logger is a zerolog.Logger bound to an open log file.
type Logger struct {
	zerolog.Logger
	path string
	file *os.File
}

// Open creates the log file's directory, opens it for appending, and returns
// a logger writing to it. An empty File discards all output.
func Open(cfg Config) (*Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	} else if strings.TrimSpace(cfg.Level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	zerolog.TimeFieldFormat = timeFormat

	path := strings.TrimSpace(cfg.File)
	if path == "" {
		return &Logger{Logger: zerolog.Nop()}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &Logger{
		Logger: New(file, level),
		path:   path,
		file:   file,
	}, nil
}

// New returns a timestamped logger writing to w at level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Component returns a child logger tagged with component.
func (l *Logger) Component(component string) zerolog.Logger {
	if l == nil {
		return zerolog.Nop()
	}
	return l.With().Str("component", component).Logger()
}

// Path returns the log file location, or "" when logging is discarded.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
