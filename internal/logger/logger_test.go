package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(LogConfig{Level: "INFO", Format: "json", Output: &buf}))

	Sentiment(context.Background(), "RELIANCE", "positive", 7.2, 0.8)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "Sentiment scored", rec["msg"])
	assert.Equal(t, "SENTIMENT", rec["type"])
	assert.Equal(t, "RELIANCE", rec["subject"])
	assert.Equal(t, 7.2, rec["score"])
}

func TestDebugSuppressedWithoutDetailedLogging(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(LogConfig{Level: "DEBUG", Format: "text", Output: &buf}))

	Debug(context.Background(), "hidden")
	assert.Empty(t, buf.String())
	assert.False(t, IsDebugEnabled())
}

func TestErrorWithErrSkip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(LogConfig{Level: "INFO", Format: "json", DetailedLogging: true, Output: &buf}))
	t.Cleanup(func() { detailedLogging = false })

	ErrorWithErrSkip(context.Background(), 0, "failed", errors.New("boom"), "symbol", "TCS")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "boom", rec["error"])
	assert.Equal(t, "TCS", rec["symbol"])
	src, ok := rec["source"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, src["file"], "logger_test.go")
}
