package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestNewTeesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "designer.log")
	var term bytes.Buffer
	log, closeLog, err := New(Config{Level: "info", Format: "console", File: file, Output: &term})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Warn("cache full", zap.Int("size", 100))
	closeLog()
	closeLog()

	assert.Contains(t, term.String(), "WARN")
	assert.Contains(t, term.String(), "cache full")
	assert.NotContains(t, term.String(), "hidden")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "cache full", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, float64(100), entry["size"])
	assert.Contains(t, entry, "timestamp")

	// The file is closed: later entries reach the terminal only.
	log.Warn("after close")
	after, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, data, after)
	assert.Contains(t, term.String(), "after close")
}

func TestNewJSONTerminal(t *testing.T) {
	var term bytes.Buffer
	log, closeLog, err := New(Config{Level: "debug", Format: "json", Output: &term})
	require.NoError(t, err)
	defer closeLog()
	log.Debug("generated", zap.String("class", "fighter"))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(term.Bytes()), &entry))
	assert.Equal(t, "fighter", entry["class"])
}

func TestHistory(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := NewHistory(zap.New(core))
	h.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	h.Log("cmd generate -class fighter")
	h.Log("ok")
	assert.Equal(t, []string{
		"[2024-05-01 12:30:00] cmd generate -class fighter",
		"[2024-05-01 12:30:00] ok",
	}, h.Lines())
	assert.Equal(t, []string{"[2024-05-01 12:30:00] ok"}, h.Last(1))
	assert.Len(t, h.Last(10), 2)

	lines := h.Lines()
	lines[0] = "changed"
	assert.NotEqual(t, "changed", h.Lines()[0])

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "console", logs.All()[0].LoggerName)
	assert.Equal(t, "ok", logs.All()[1].ContextMap()["line"])
}
