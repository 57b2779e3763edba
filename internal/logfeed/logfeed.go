// Package logfeed parses, classifies, filters, and exports AURA backend log lines.
package logfeed

import (
	"strconv"
	"strings"
	"time"
)

// Severity is the display class derived from a log line's message.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityDebug   Severity = "debug"

	// SeverityAll disables severity filtering.
	SeverityAll Severity = "all"
)

// FilterLevels lists the severity filter choices in cycling order.
var FilterLevels = []Severity{
	SeverityAll,
	SeverityError,
	SeverityWarning,
	SeveritySuccess,
	SeverityInfo,
	SeverityDebug,
}

// Entry is one parsed log line.
type Entry struct {
	Raw       string
	Stamp     string    // text before the first separator, if any
	Timestamp time.Time // zero unless Stamp is a nanosecond count
	Message   string
	Severity  Severity
}

type rule struct {
	severity Severity
	markers  []string
}

// rules are evaluated top to bottom; the first rule with a matching marker wins.
var rules = []rule{
	{SeverityError, []string{"❌", "error", "failed"}},
	{SeverityWarning, []string{"⚠️", "warning", "partial"}},
	{SeveritySuccess, []string{"✅", "success", "completed"}},
	{SeverityInfo, []string{"🔄", "starting", "processing"}},
}

const fieldSeparator = " | "

// Classify returns the severity for message.
func Classify(message string) Severity {
	for _, r := range rules {
		for _, marker := range r.markers {
			if strings.Contains(message, marker) {
				return r.severity
			}
		}
	}
	return SeverityDebug
}

// Parse splits a "<nanos> | <message>" line. Everything after the first
// separator is the message; lines without a separator are all message.
func Parse(line string) Entry {
	entry := Entry{Raw: line, Message: line}
	if head, rest, ok := strings.Cut(line, fieldSeparator); ok {
		entry.Stamp = head
		entry.Message = rest
		if nanos, err := strconv.ParseInt(strings.TrimSpace(head), 10, 64); err == nil && nanos > 0 {
			entry.Timestamp = time.Unix(0, nanos)
		}
	}
	entry.Severity = Classify(entry.Message)
	return entry
}

// ParseAll parses lines preserving order.
func ParseAll(lines []string) []Entry {
	if len(lines) == 0 {
		return nil
	}
	out := make([]Entry, len(lines))
	for i, line := range lines {
		out[i] = Parse(line)
	}
	return out
}

// Filter selects entries by case-insensitive message substring and severity.
type Filter struct {
	Query    string
	Severity Severity
}

// Active reports whether f narrows the feed at all.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Query) != "" || (f.Severity != "" && f.Severity != SeverityAll)
}

// Match reports whether e passes f.
func (f Filter) Match(e Entry) bool {
	if f.Severity != "" && f.Severity != SeverityAll && e.Severity != f.Severity {
		return false
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Message), query)
}

// Apply returns the entries of in that match f, preserving order.
func (f Filter) Apply(in []Entry) []Entry {
	if !f.Active() {
		return in
	}
	out := make([]Entry, 0, len(in))
	for _, e := range in {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// NextSeverity returns the filter level after current in FilterLevels.
func NextSeverity(current Severity) Severity {
	for i, s := range FilterLevels {
		if s == current {
			return FilterLevels[(i+1)%len(FilterLevels)]
		}
	}
	return SeverityAll
}

// Icon returns the glyph shown next to entries of severity s.
func Icon(s Severity) string {
	switch s {
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️"
	case SeveritySuccess:
		return "✅"
	case SeverityInfo:
		return "🔄"
	default:
		return "📝"
	}
}

// Reverse returns a copy of lines in reverse order.
func Reverse(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[len(lines)-1-i] = line
	}
	return out
}
