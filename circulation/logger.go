package circulation

// Logger is the minimal structured logging interface consumed by the engine.
// It matches the level methods of log/slog so any slog-backed logger, such
// as the OpenTelemetry slog bridge, satisfies it directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
