package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     slog.Level
	}{
		{"unset defaults to info", "", slog.LevelInfo},
		{"debug", "DEBUG", slog.LevelDebug},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"warn", "WARN", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "ERROR", slog.LevelError},
		{"garbage falls back to info", "verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SOUNDMESH_LOG_LEVEL", tt.envValue)
			cfg := DefaultConfig()
			assert.Equal(t, tt.want, cfg.Level)
			assert.Equal(t, "text", cfg.Format)
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"text", "json", ""} {
		log := NewLogger(Config{Level: slog.LevelInfo, Format: format})
		require.NotNil(t, log)
	}
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	log := NewLogger(Config{Level: slog.LevelWarn, Format: "text"})
	assert.False(t, log.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, log.Enabled(t.Context(), slog.LevelWarn))
}

func TestNewTestLogger(t *testing.T) {
	log := NewTestLogger()
	require.NotNil(t, log)
	assert.False(t, log.Enabled(t.Context(), slog.LevelInfo))
}
