package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestJSONLogging(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	InitWithWriter(Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "test-service",
		Version:     "1.0.0",
		Environment: "test",
	}, &buf)

	Info("test message", "key", "value", "number", 42)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "test-service", entry["service"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, float64(42), entry["number"])
}

func TestLevelFiltering(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	InitWithWriter(Config{Level: "warn", Format: "text"}, &buf)

	Info("hidden")
	Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFromContext_CarriesRequestAndOwner(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	InitWithWriter(Config{Level: "debug", Format: "json"}, &buf)

	ctx := WithRequestID(context.Background(), "test-req-123")
	ctx = WithOwner(ctx, "owner-7")
	assert.Equal(t, "test-req-123", GetRequestID(ctx))

	FromContext(ctx).Info("tick")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test-req-123", entry[AttrKeyRequestID])
	assert.Equal(t, "owner-7", entry[AttrKeyOwnerID])
}

func TestFromContext_WithoutValues(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	InitWithWriter(Config{Level: "info", Format: "text"}, &buf)

	assert.Empty(t, GetRequestID(context.Background()))
	FromContext(context.Background()).Info("plain")
	assert.False(t, strings.Contains(buf.String(), AttrKeyRequestID))
}

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestConfigPresets(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		format    string
		level     slog.Level
		addSource bool
	}{
		{"default", DefaultConfig(), LogFormatText, slog.LevelInfo, false},
		{"production", ProductionConfig(), LogFormatJSON, slog.LevelInfo, false},
		{"development", DevelopmentConfig(), LogFormatText, slog.LevelDebug, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, DefaultServiceName, tt.cfg.ServiceName)
			assert.Equal(t, tt.format, tt.cfg.Format)
			assert.Equal(t, tt.level, tt.cfg.LogLevel())
			assert.Equal(t, tt.addSource, tt.cfg.AddSource)
		})
	}
}

func TestLogLevelParsing(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, Config{Level: "WARNING"}.LogLevel())
	assert.Equal(t, slog.LevelError, Config{Level: "error"}.LogLevel())
	assert.Equal(t, slog.LevelInfo, Config{Level: "bogus"}.LogLevel())
}
