// Package oteladapters provides OpenTelemetry adapters for the logging
// interfaces consumed by the circulation engine and its storage layer.
// They enable plug-and-play observability for users who do not want to
// implement the interfaces themselves.
package oteladapters

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/storage/postgresengine"
)

// SlogBridgeLogger implements the engine's Logger interfaces using the
// OpenTelemetry slog bridge. This is the recommended implementation as it
// provides automatic trace correlation and works seamlessly with Go's
// standard log/slog package.
type SlogBridgeLogger struct {
	logger *slog.Logger
}

// NewSlogBridgeLogger creates a new logger using the OpenTelemetry slog
// bridge. The logger uses the global OpenTelemetry LoggerProvider.
func NewSlogBridgeLogger(name string) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: otelslog.NewLogger(name)}
}

// NewSlogBridgeLoggerWithHandler creates a new logger using the provided
// slog.Handler as-is, without OpenTelemetry trace correlation. For trace
// correlation, use NewSlogBridgeLogger instead.
func NewSlogBridgeLoggerWithHandler(handler slog.Handler) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: slog.New(handler)}
}

// Debug logs a debug message.
func (l *SlogBridgeLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs an info message.
func (l *SlogBridgeLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (l *SlogBridgeLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs an error message.
func (l *SlogBridgeLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Interface assertions for the consumers of this adapter.
var (
	_ postgresengine.Logger = (*SlogBridgeLogger)(nil)
	_ circulation.Logger    = (*SlogBridgeLogger)(nil)
)
