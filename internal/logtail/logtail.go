package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file. A missing file is not an
// error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Record is one decoded diagnostic log line.
type Record struct {
	Time      time.Time
	Level     string
	Component string
	Message   string
	Error     string
	Fields    map[string]string
	Raw       string
}

// Decode parses a JSON diagnostic line. Lines that are not JSON objects come
// back as a Record holding only Raw and Message.
func Decode(line string) Record {
	rec := Record{Raw: line, Message: line}

	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return rec
	}

	rec.Level = takeString(fields, "level")
	rec.Component = takeString(fields, "component")
	rec.Message = takeString(fields, "message")
	rec.Error = takeString(fields, "error")
	if ts := takeString(fields, "time"); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Time = parsed
		}
	}
	if len(fields) > 0 {
		rec.Fields = make(map[string]string, len(fields))
		for k, v := range fields {
			rec.Fields[k] = fmt.Sprint(v)
		}
	}
	return rec
}

// Format renders rec as a single display line.
func Format(rec Record) string {
	if rec.Level == "" && rec.Component == "" && rec.Time.IsZero() {
		return rec.Raw
	}

	var b strings.Builder
	if !rec.Time.IsZero() {
		b.WriteString(rec.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	if rec.Level != "" {
		b.WriteString(strings.ToUpper(rec.Level))
		b.WriteByte(' ')
	}
	if rec.Component != "" {
		b.WriteString("[" + rec.Component + "] ")
	}
	b.WriteString(rec.Message)
	if rec.Error != "" {
		b.WriteString(": " + rec.Error)
	}

	keys := make([]string, 0, len(rec.Fields))
	for k := range rec.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" " + k + "=" + rec.Fields[k])
	}
	return b.String()
}

// Tail reads and formats the last maxLines of the diagnostic log.
func Tail(path string, maxLines int) ([]string, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, Format(Decode(line)))
	}
	return out, nil
}

func takeString(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	delete(fields, key)
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
