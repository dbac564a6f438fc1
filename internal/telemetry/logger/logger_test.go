package logger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry), "line: %s", sc.Text())
		out = append(out, entry)
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default config", cfg: DefaultConfig()},
		{name: "console format", cfg: Config{Level: "debug", Format: "console"}},
		{name: "text alias", cfg: Config{Level: "warn", Format: "text"}},
		{name: "unknown format", cfg: Config{Level: "info", Format: "xml"}, wantErr: true},
		{name: "unknown level", cfg: Config{Level: "loud", Format: "json"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "debug", Format: "json", Output: &buf, Service: "healthy"})
	require.NoError(t, err)

	tests := []struct {
		level   string
		logFunc func(string, ...any)
	}{
		{"DEBUG", l.Debug},
		{"INFO", l.Info},
		{"WARN", l.Warn},
		{"ERROR", l.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.logFunc("test message", "component", "test-value")

			entries := decodeLines(t, &buf)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0]["level"])
			assert.Equal(t, "test message", entries[0]["msg"])
			assert.Equal(t, "test-value", entries[0]["component"])
			assert.Equal(t, "healthy", entries[0]["service"])
			assert.Contains(t, entries[0], "timestamp")
			assert.Contains(t, entries[0], "pid")
		})
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	require.NoError(t, err)
	prev := Default()
	SetDefault(l)
	t.Cleanup(func() { SetDefault(prev) })

	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	SetLevel("debug")
	assert.Equal(t, "debug", GetLevel())
	l.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	// Derived loggers share the level.
	buf.Reset()
	l.With("component", "http").Debug("derived")
	assert.Contains(t, buf.String(), "derived")

	SetLevel("nonsense")
	assert.Equal(t, "debug", GetLevel())

	SetLevel("error")
	buf.Reset()
	l.Warn("dropped")
	assert.Zero(t, buf.Len())
}

func TestNew_DoesNotChangeOtherLoggers(t *testing.T) {
	var buf bytes.Buffer
	running, err := New(Config{Level: "warn", Format: "json", Output: &buf})
	require.NoError(t, err)
	prev := Default()
	SetDefault(running)
	t.Cleanup(func() { SetDefault(prev) })

	_, err = New(Config{Level: "debug", Format: "json", Output: io.Discard})
	require.NoError(t, err)

	running.Info("still filtered")
	assert.Zero(t, buf.Len())
	assert.Equal(t, "warn", GetLevel())
}

type otherLogger struct{ Logger }

func TestSetLevel_ForeignDefault(t *testing.T) {
	prev := Default()
	SetDefault(otherLogger{Nop()})
	t.Cleanup(func() { SetDefault(prev) })

	assert.NotPanics(t, func() { SetLevel("debug") })
	assert.Equal(t, "info", GetLevel())
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	require.NoError(t, err)

	l.With("probe", "system").Info("refreshed")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "system", entries[0]["probe"])
}

func TestLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "console", Output: &buf})
	require.NoError(t, err)

	l.Info("console line", "key", "value")
	out := buf.String()
	assert.True(t, strings.Contains(out, "INFO"))
	assert.Contains(t, out, "console line")
}

func TestContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	require.NoError(t, err)

	ctx := WithLogger(context.Background(), l)
	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))

	L(ctx).Info("handled")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0]["request_id"])
}

func TestFromContext_Default(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	nop := Nop()
	SetDefault(nop)
	assert.Same(t, nop, Default())

	SetDefault(nil)
	assert.Same(t, nop, Default())
}
