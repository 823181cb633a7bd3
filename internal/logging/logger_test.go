package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_JSONRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := Build(Options{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Debug("hidden")
	logger.Warn("component degraded", "error", "boom")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "component degraded", entry["msg"])
	assert.Equal(t, "boom", entry["err"])
	assert.NotContains(t, entry, "error")
}

func TestBuild_Text(t *testing.T) {
	var buf bytes.Buffer
	Build(Options{Level: slog.LevelDebug, Output: &buf}).Debug("mounted", "component", "c1")
	assert.Contains(t, buf.String(), "component=c1")
}
