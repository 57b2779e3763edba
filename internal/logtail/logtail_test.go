package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, expectedAll},
		{"read all (negative)", -1, expectedAll},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestDecode(t *testing.T) {
	line := `{"level":"warn","component":"dashboard","cycle":7,"error":"connection refused","time":"2024-03-01T10:00:00Z","message":"health probe failed"}`
	rec := Decode(line)

	if rec.Level != "warn" || rec.Component != "dashboard" {
		t.Fatalf("level/component = %q/%q", rec.Level, rec.Component)
	}
	if rec.Message != "health probe failed" || rec.Error != "connection refused" {
		t.Fatalf("message/error = %q/%q", rec.Message, rec.Error)
	}
	if !rec.Time.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("time = %v", rec.Time)
	}
	if rec.Fields["cycle"] != "7" {
		t.Fatalf("fields = %#v, want cycle=7", rec.Fields)
	}
}

func TestDecode_PlainLine(t *testing.T) {
	rec := Decode("not json at all")
	if rec.Message != "not json at all" || rec.Level != "" {
		t.Fatalf("Decode(plain) = %#v", rec)
	}
	if got := Format(rec); got != "not json at all" {
		t.Fatalf("Format(plain) = %q", got)
	}
}

func TestFormat(t *testing.T) {
	rec := Record{
		Level:     "error",
		Component: "aura",
		Message:   "request failed",
		Error:     "timeout",
		Fields:    map[string]string{"path": "/api/health", "method": "GET"},
	}
	want := "ERROR [aura] request failed: timeout method=GET path=/api/health"
	if got := Format(rec); got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestTail_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aurad.log")
	content := `{"level":"info","message":"one"}` + "\n\n" + `{"level":"debug","message":"two"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Tail(path, 5)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	want := []string{"INFO one", "DEBUG two"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tail() = %q, want %q", got, want)
	}
}
