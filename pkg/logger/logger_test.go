package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerValidConfig(t *testing.T) {
	log, err := newLogger(Config{Level: "debug", Encoding: "json"})
	require.NoError(t, err)
	require.NotNil(t, log)
	log.Debug("test message")
}

func TestNewLoggerConsoleEncoding(t *testing.T) {
	log, err := newLogger(Config{Level: "info", Encoding: "console", Development: true})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	_, err := newLogger(Config{Level: "shouting", Encoding: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestGetReturnsLogger(t *testing.T) {
	log := Get()
	require.NotNil(t, log)
	assert.Same(t, log, Get())
}

func TestWithContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), DatasetKey, "query_log")
	ctx = context.WithValue(ctx, OperationKey, "read")
	ctx = context.WithValue(ctx, RunIDKey, "run-1")

	log := WithContext(ctx)
	require.NotNil(t, log)
	log.Info("context-scoped message")
}
