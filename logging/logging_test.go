package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerConfig(t *testing.T) {
	cfg := NewLoggerConfig()
	assert.Equal(t, "console", cfg.Encoding)
	assert.True(t, cfg.DisableStacktrace)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())
}

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Infow("field generated", "count", 3)
	logger.Debug("debug line")

	assert.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "field generated", entry.Message)
	assert.Equal(t, int64(3), entry.ContextMap()["count"])
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, NewLogger("test"))
	assert.NotNil(t, NewDebugLogger("test"))
	NewNopLogger().Info("dropped")
}
