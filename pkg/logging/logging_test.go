package logging_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catalogadmin/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logging.SetDefault(zerolog.New(buf).Level(zerolog.InfoLevel))

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Err(errors.New("boom")).Msg("failed")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "boom")
}

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	t.Run("defaults", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
	})

	t.Run("writes json to file with default fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalogadmin.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "warn",
			Format: "json",
			Output: path,
			Fields: map[string]any{"app": "catalogadmin"},
		})

		logger.Info().Msg("hidden")
		logger.Warn().Msg("shown")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "hidden")
		assert.Contains(t, string(content), "shown")
		assert.Contains(t, string(content), `"app":"catalogadmin"`)
	})

	t.Run("nil config falls back to defaults", func(t *testing.T) {
		assert.NotPanics(t, func() { logging.NewLoggerFromConfig(nil) })
	})
}

func TestParseFields(t *testing.T) {
	fields := logging.ParseFields("env=dev, user = admin,broken")
	assert.Equal(t, map[string]any{"env": "dev", "user": "admin"}, fields)
	assert.Empty(t, logging.ParseFields(""))
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithOperation(ctx, "update")
	ctx = logging.WithProduct(ctx, 42)
	ctx = logging.WithRequestID(ctx, "req-1")

	logging.FromContext(ctx).Info().Msg("patch sent")

	testLogger.AssertContains(t, `"operation":"update"`)
	testLogger.AssertContains(t, `"product_id":42`)
	testLogger.AssertContains(t, `"request_id":"req-1"`)
	assert.Equal(t, "req-1", logging.RequestID(ctx))
	assert.Len(t, testLogger.Lines(), 1)
}

func TestFromContext_Default(t *testing.T) {
	//nolint:staticcheck // nil context is handled explicitly
	assert.Equal(t, logging.Default(), logging.FromContext(nil))
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Empty(t, logging.RequestID(context.Background()))
}

func TestWithError(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)

	assert.Equal(t, ctx, logging.WithError(ctx, nil))

	ctx = logging.WithError(ctx, errors.New("timeout"))
	logging.FromContext(ctx).Error().Msg("list failed")
	testLogger.AssertContains(t, "timeout")
}

func TestCaptureLoggingForTest(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)
	logging.Warn().Str("store", "file").Msg("session file unreadable")
	captured.AssertContains(t, "session file unreadable")
	captured.AssertNotContains(t, "redis")
}
