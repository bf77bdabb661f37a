package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"":      zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", &buf)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Int("station", 3).Msg("station idle")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "station idle", entry["message"])
	assert.Equal(t, "shortorder", entry["service"])
	assert.EqualValues(t, 3, entry["station"])
	assert.Contains(t, entry, "time")
}

func TestConsoleWriterIsReadable(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", Console(&buf))
	require.NoError(t, err)

	log.Info().Msg("day started")
	assert.Contains(t, buf.String(), "day started")
	assert.NotContains(t, buf.String(), `"message"`)
}
