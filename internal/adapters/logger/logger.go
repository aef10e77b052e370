// Package logger implements a logging adapter using log/slog.
package logger

import (
	"log/slog"
	"os"
)

// Logger implements ports.Logger using log/slog with a text handler writing
// to stderr, keeping stdout free for the report.
type Logger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

// New creates a new Logger instance at Info level.
func New() *Logger {
	level := new(slog.LevelVar)
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		logger: slog.New(handler),
		level:  level,
	}
}

// SetLevel adjusts the minimum level, driven by the --verbose and --quiet
// flags.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Debug logs a debug message with optional key/value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs an informational message with optional key/value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Error logs an error.
func (l *Logger) Error(err error) {
	l.logger.Error("operation failed", "error", err)
}
