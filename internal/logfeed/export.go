package logfeed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportName returns the export file name for the UTC date of now.
func ExportName(now time.Time) string {
	return "aura-logs-" + now.UTC().Format("2006-01-02") + ".txt"
}

// Export writes the raw text of entries, one per line, to dir and returns the
// written path. An existing export for the same day is overwritten.
func Export(dir string, entries []Entry, now time.Time) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, ExportName(now))
	if err := os.WriteFile(path, []byte(JoinRaw(entries)), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// JoinRaw joins the raw text of entries with newlines.
func JoinRaw(entries []Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Raw
	}
	return strings.Join(lines, "\n")
}
