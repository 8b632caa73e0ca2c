package testutil

import (
	"fiberops-assistant-be/internal/pkg/logger"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewObservedLogger records entries in memory so tests can assert on them.
func NewObservedLogger(level zapcore.Level) (*logger.ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return logger.NewCoreLogger(core), logs
}
