package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sluggable/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew_Extractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info", Output: &buf},
		logger.CollectionExtractor(),
		logger.RequestIDExtractor(),
		nil,
	)

	ctx := logger.WithCollection(context.Background(), "articles")
	ctx = logger.WithRequestID(ctx, "req-1")
	log.InfoContext(ctx, "slug assigned", slog.String("slug", "hello-world"))

	entry := decode(t, &buf)
	assert.Equal(t, "slug assigned", entry["msg"])
	assert.Equal(t, "hello-world", entry["slug"])
	assert.Equal(t, "articles", entry["collection"])
	assert.Equal(t, "req-1", entry["request_id"])
}

func TestNew_SkipsMissingContextValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf}, logger.CollectionExtractor())
	log.Info("plain")

	entry := decode(t, &buf)
	_, ok := entry["collection"]
	assert.False(t, ok)
}

func TestNew_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "warn", Output: &buf})
	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.NotZero(t, buf.Len())
}

func TestNew_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Format: "text", Output: &buf})
	log.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestDecorate_WithAttrsKeepsExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := logger.Decorate(slog.NewJSONHandler(&buf, nil), logger.CollectionExtractor())
	log := slog.New(h).With(slog.String("component", "slugger"))

	log.InfoContext(logger.WithCollection(context.Background(), "users"), "derived")

	entry := decode(t, &buf)
	assert.Equal(t, "slugger", entry["component"])
	assert.Equal(t, "users", entry["collection"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.NotNil(t, log)
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}
