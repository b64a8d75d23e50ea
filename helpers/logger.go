package helpers

import (
	"dealradar/logger"
)

// LoggerInterface defines the interface for logger implementations
type LoggerInterface interface {
	LogError(component string, err error)
	LogInfo(format string, args ...interface{})
}

// ZeroLogger implements LoggerInterface on top of the zerolog wrapper
type ZeroLogger struct{}

// NewZeroLogger creates a new zerolog-backed logger
func NewZeroLogger() *ZeroLogger {
	return &ZeroLogger{}
}

// LogError logs an error with the component that produced it
func (l *ZeroLogger) LogError(component string, err error) {
	logger.LogError(component, err, "operation failed")
}

// LogInfo logs an informational message
func (l *ZeroLogger) LogInfo(format string, args ...interface{}) {
	logger.Info(format, args...)
}
