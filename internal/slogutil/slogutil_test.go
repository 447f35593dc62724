package slogutil

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Info("refreshed builds", "added", 2, "root", "/opt/blender builds")

	out := buf.String()
	assert.Contains(t, out, " info refreshed builds")
	assert.Contains(t, out, "added=2")
	assert.Contains(t, out, `root="/opt/blender builds"`)
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "warn shown")
}

func TestHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelDebug).With("component", "core").WithGroup("build")

	logger.Debug("launching", "id", "abc")

	assert.Contains(t, buf.String(), "component=core")
	assert.Contains(t, buf.String(), "build.id=abc")
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"off":     LevelSilent,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, LevelFromString(in), in)
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromVerbosity(true, "error"))
	assert.Equal(t, slog.LevelWarn, LevelFromVerbosity(false, ""))
	assert.Equal(t, slog.LevelError, LevelFromVerbosity(false, "error"))
}
