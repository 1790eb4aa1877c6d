package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Format: "json", Component: ComponentApp, Output: &buf})
	l.WithComponent(ComponentLedger).Info("saved", FieldRef, "1")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, ComponentLedger, lines[0][FieldComponent])
	assert.Equal(t, "1", lines[0][FieldRef])
}

func TestLogHTTPEndLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf}))
	r := httptest.NewRequest("POST", "/expenses", nil)

	sl.LogHTTPEnd(context.Background(), r, 200, 3, "127.0.0.1")
	sl.LogHTTPEnd(context.Background(), r, 422, 3, "127.0.0.1")
	sl.LogHTTPEnd(context.Background(), r, 500, 3, "127.0.0.1")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "WARN", lines[1]["level"])
	assert.Equal(t, "ERROR", lines[2]["level"])
	assert.Equal(t, false, lines[1][FieldSuccess])
}

func TestLogLoginOmitsPassword(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Format: "json", Output: &buf}))
	sl.LogLogin(context.Background(), "demo", "sid", false)
	sl.LogError(context.Background(), "boom", errors.New("disk full"), ComponentStorage, OpAppend, nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.NotContains(t, lines[0], "password")
	assert.Equal(t, "disk full", lines[1][FieldError])
	assert.Equal(t, ComponentStorage, lines[1][FieldComponent])
}

func TestFromContextFallback(t *testing.T) {
	l := FromContext(context.Background())
	assert.Equal(t, ComponentApp, l.Component())

	custom := New(DefaultConfig()).WithComponent(ComponentHTTP)
	assert.Same(t, custom, FromContext(NewContext(context.Background(), custom)))
}
