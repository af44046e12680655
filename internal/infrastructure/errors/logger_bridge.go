package errors

import (
	"fmt"

	"qlaunch/internal/infrastructure/logging"
)

// LoggerBridge adapts logging.Logger to RetryLogger
type LoggerBridge struct {
	logger logging.Logger
}

// NewLoggerBridge creates a new bridge from logging.Logger to RetryLogger
func NewLoggerBridge(logger logging.Logger) RetryLogger {
	return &LoggerBridge{logger: logger}
}

// Printf formats the message and logs it at DEBUG level with a source field
func (b *LoggerBridge) Printf(format string, v ...interface{}) {
	if b.logger != nil {
		b.logger.Debug(fmt.Sprintf(format, v...), "source", "retry")
	}
}
