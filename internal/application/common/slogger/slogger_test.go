package slogger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"phpcsutils/internal/application/common/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { SetGlobalLogger(nil) })

	var out bytes.Buffer
	require.NoError(t, Configure(logging.Config{Level: "DEBUG", Format: "json", Writer: &out}))

	ctx := logging.WithCorrelationID(context.Background(), "run-1")
	Debug(ctx, "Tokenized source", Fields{"tokens": 3})
	WithComponent("cli").Info(ctx, "done", Field("units", 1))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var entry logging.LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "DEBUG", entry.Level)
	assert.Equal(t, "run-1", entry.CorrelationID)
	assert.EqualValues(t, 3, entry.Metadata["tokens"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "cli", entry.Component)
}

func TestConfigure_Invalid(t *testing.T) {
	t.Cleanup(func() { SetGlobalLogger(nil) })

	var out bytes.Buffer
	require.NoError(t, Configure(logging.Config{Level: "INFO", Format: "json", Writer: &out}))
	require.Error(t, Configure(logging.Config{Level: "LOUD", Format: "json"}))

	Info(context.Background(), "still configured", nil)
	assert.Contains(t, out.String(), "still configured")
}

func TestDefaultLogger(t *testing.T) {
	SetGlobalLogger(nil)
	assert.NotNil(t, getLogger())
}
