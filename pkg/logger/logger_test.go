package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONWithServiceField(t *testing.T) {
	t.Cleanup(Reset)
	var buf bytes.Buffer
	log := Init(Options{Level: "debug", Output: &buf, Service: "incidentd"})

	log.Debug().Str("incident_id", "x").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "incidentd", entry["service"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "x", entry["incident_id"])
}

func TestInit_LevelFilters(t *testing.T) {
	t.Cleanup(Reset)
	var buf bytes.Buffer
	log := Init(Options{Level: "warn", Output: &buf})

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	t.Cleanup(Reset)
	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})

	got := Get()
	got.Info().Msg("once")
	assert.Contains(t, first.String(), "once")
	assert.Empty(t, second.String())
}

func TestInit_WritesFile(t *testing.T) {
	t.Cleanup(Reset)
	path := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	log := Init(Options{Output: &buf, File: path})

	log.Info().Msg("to disk")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "to disk"))
	assert.Contains(t, buf.String(), "to disk")
}

func TestGet_BeforeInitIsDisabled(t *testing.T) {
	Reset()
	assert.Equal(t, zerolog.Disabled, Get().GetLevel())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}
