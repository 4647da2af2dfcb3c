package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"devhub/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("hidden")
	require.Zero(t, buf.Len())

	logger.Warn().Str("provider", "groq").Msg("slow")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "groq", entry["provider"])
	require.Equal(t, "slow", entry["message"])
	require.Contains(t, entry, "time")
}

func TestNew_ConsoleAndLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "chatty", Format: "console"}, &buf)
	require.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	logger.Info().Msg("ready")
	require.Contains(t, buf.String(), "ready")
	require.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))

	require.Equal(t, zerolog.InfoLevel, New(config.LogConfig{}, &buf).GetLevel())
	require.Equal(t, zerolog.DebugLevel, New(config.LogConfig{Level: "DEBUG"}, &buf).GetLevel())
}
