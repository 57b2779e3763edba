package diag

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_WritesJSONLinesWithComponent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "aurad.log")

	l, err := Open(Config{Level: "debug", File: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	assert.Equal(t, path, l.Path())

	pollerLog := l.Component("poller")
	pollerLog.Info().Str("op", "refresh").Msg("cycle done")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, `"component":"poller"`)
	assert.Contains(t, line, `"op":"refresh"`)
	assert.Contains(t, line, `"message":"cycle done"`)
	assert.Contains(t, line, `"time":`)
}

func TestOpen_RejectsUnknownLevel(t *testing.T) {
	_, err := Open(Config{Level: "chatty", File: filepath.Join(t.TempDir(), "x.log")})
	require.Error(t, err)
}

func TestOpen_EmptyFileDiscards(t *testing.T) {
	l, err := Open(Config{})
	require.NoError(t, err)
	assert.Empty(t, l.Path())
	assert.NoError(t, l.Close())
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.WarnLevel)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "shown"))
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.Empty(t, l.Path())
	assert.NoError(t, l.Close())
	uiLog := l.Component("ui")
	uiLog.Info().Msg("discarded")
}
