package log

import (
	"testing"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
)

func TestNewGologLoggerDefaultsToInfo(t *testing.T) {
	logger := NewGologLogger(golog.New())

	assert.NotNil(t, logger)
	assert.Equal(t, LogLevelInfo, logger.GetLevel())
}

func TestGologAdapterLevelControl(t *testing.T) {
	logger := NewGologLogger(golog.New())

	logger.SetLevel(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, logger.GetLevel())

	logger.SetLevel(LogLevelError)
	assert.Equal(t, LogLevelError, logger.GetLevel())

	logger.SetLevel(LogLevelNone)
	assert.Equal(t, LogLevelNone, logger.GetLevel())
}

func TestGologAdapterLoggingDoesNotPanic(t *testing.T) {
	logger := NewGologLogger(golog.New())
	logger.SetLevel(LogLevelDebug)

	logger.Debug("debug: %s", "test")
	logger.Info("info: %d", 42)
	logger.Warn("warn: %v", map[string]string{"key": "value"})
	logger.Error("error: %f", 3.14)
}

func TestGologAdapterLevelFiltering(t *testing.T) {
	logger := NewGologLogger(golog.New())
	logger.SetLevel(LogLevelError)

	assert.Equal(t, LogLevelError, logger.GetLevel())

	// Below-threshold calls must not panic even though they're filtered.
	logger.Debug("filtered")
	logger.Info("filtered")
	logger.Warn("filtered")
	logger.Error("logged")
}

func TestGologAdapterImplementsLogger(t *testing.T) {
	var _ Logger = (*GologAdapter)(nil)

	logger := NewGologLogger(golog.New())
	assert.NotNil(t, logger)
}

func TestGologAdapterWithComponentSharesLevel(t *testing.T) {
	logger := NewGologLogger(golog.New())
	logger.SetLevel(LogLevelDebug)

	scoped := logger.WithComponent("compiler")
	assert.Equal(t, LogLevelDebug, scoped.GetLevel())

	// Tagging must not mutate the parent adapter.
	scoped.SetLevel(LogLevelError)
	assert.Equal(t, LogLevelDebug, logger.GetLevel())
	assert.Equal(t, LogLevelError, scoped.GetLevel())

	scoped.Error("link %s dropped", "L123")
}

func TestGologAdapterCustomGologInstance(t *testing.T) {
	backend := golog.New()
	backend.SetLevel("error")
	backend.SetPrefix("[custom] ")

	logger := NewGologLogger(backend)
	assert.NotNil(t, logger)

	logger.SetLevel(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, logger.GetLevel())
}
