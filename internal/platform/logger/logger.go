// Package logger provides structured logging for the room planner service.
// Every allocation decision should be traceable through this.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap sugared logger with the small surface the service uses.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a production logger writing JSON to stdout.
func NewLogger() *Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// The production config only fails on bad output paths.
		zl = zap.NewNop()
	}
	return &Logger{sugar: zl.Sugar()}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// Info logs an informational message.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warn logs a warning.
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Event logs a domain event for the audit trail.
func (l *Logger) Event(eventType string, allocationID string, details string) {
	l.sugar.Infow("event",
		"type", eventType,
		"allocation_id", allocationID,
		"details", details,
	)
}

// Sync flushes buffered log entries. Call on shutdown.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}
