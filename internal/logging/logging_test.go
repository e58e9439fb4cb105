package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New("debug", "json", &buf)
	l.Debug().Str("path", "x.csv").Msg("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "x.csv", entry["path"])
	assert.Equal(t, "loaded", entry["message"])
}

func TestNewLevelFiltersAndInstallsGlobal(t *testing.T) {
	var buf bytes.Buffer
	New("warn", "json", &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())
	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewConsoleFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New("loud", "console", &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
	l.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}
