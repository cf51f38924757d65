package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger_JSONFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewZapLoggerFor(&buf, "info", "json")
	require.NoError(t, err)

	ctx := context.Background()
	log.Debug(ctx, "hidden")
	log.With("upi_id", "a@bank").Info(ctx, "balance refreshed", "balance", 150)
	require.NoError(t, log.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug must be filtered at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "balance refreshed", entry["msg"])
	assert.Equal(t, "a@bank", entry["upi_id"])
	assert.EqualValues(t, 150, entry["balance"])
}

func TestZapLogger_InvalidLevel(t *testing.T) {
	_, err := NewZapLoggerFor(&bytes.Buffer{}, "loud", "json")
	require.Error(t, err)
}

func TestNew_Backends(t *testing.T) {
	var buf bytes.Buffer

	l, err := New("slog", "warn", "json", &buf)
	require.NoError(t, err)
	l.Info(context.Background(), "dropped")
	l.Warn(context.Background(), "kept", "k", "v")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)

	_, err = New("zap", "debug", "text", &buf)
	require.NoError(t, err)

	_, err = New("logrus", "info", "text", &buf)
	require.Error(t, err)

	l, err = New("slog", "chatty", "text", &buf)
	require.Error(t, err)
	assert.Nil(t, l)

	l, err = New("zap", "chatty", "text", &buf)
	require.Error(t, err)
	assert.Nil(t, l)
}

func TestNop_DoesNothing(t *testing.T) {
	l := Nop().With("a", 1)
	l.Info(context.Background(), "nothing")
	l.Error(context.Background(), "nothing")
}
