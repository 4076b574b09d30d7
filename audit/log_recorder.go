package audit

import (
	"context"
)

const (
	logMsgAuditEvent    = "audit event"
	logAttrEventType    = "event_type"
	logAttrEntityKind   = "entity_kind"
	logAttrEntityID     = "entity_id"
	logAttrActorID      = "actor_id"
	logAttrActorRole    = "actor_role"
	logAttrEventContext = "context"
)

// Logger is the structured logging interface the LogRecorder writes to.
// It matches the level methods of log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// LogRecorder writes audit events to a structured logger instead of a
// table. Useful for development setups and as a fallback sink.
type LogRecorder struct {
	logger Logger
}

// NewLogRecorder creates a LogRecorder on top of the given logger.
func NewLogRecorder(logger Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

// Record logs the event at info level with its context serialized to JSON.
func (r *LogRecorder) Record(_ context.Context, event Event) error {
	contextJSON, err := encodeContext(event.Context)
	if err != nil {
		return err
	}

	r.logger.Info(logMsgAuditEvent,
		logAttrEventType, event.Type,
		logAttrEntityKind, event.EntityKind,
		logAttrEntityID, event.EntityID,
		logAttrActorID, event.ActorID,
		logAttrActorRole, event.ActorRole,
		logAttrEventContext, string(contextJSON),
	)

	return nil
}
