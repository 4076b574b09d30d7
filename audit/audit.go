// Package audit provides the fire-and-forget audit sink consumed by the
// circulation engine. Recording is best-effort by contract: implementations
// may fail, and callers log the failure and continue - an audit problem
// never rolls back a loan or hold mutation.
package audit

import (
	"context"

	jsoniter "github.com/json-iterator/go"
)

// Event describes one auditable action: what happened, to which entity, and
// on whose behalf. Context carries free-form detail for the audit trail.
type Event struct {
	Type       string
	EntityKind string
	EntityID   string
	ActorID    string
	ActorRole  string
	Context    map[string]any
}

// Recorder is the audit sink interface. Record returns an error so callers
// can log failures, but by contract they must never propagate it.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}

// EventInserter persists serialized audit events. The Postgres storage
// engine implements it against the audit_log table.
type EventInserter interface {
	InsertAuditEvent(
		ctx context.Context,
		eventType string,
		entityKind string,
		entityID string,
		actorID string,
		actorRole string,
		contextJSON []byte,
	) error
}

// StoreRecorder records audit events through an EventInserter, serializing
// the context payload to JSON.
type StoreRecorder struct {
	inserter EventInserter
}

// NewStoreRecorder creates a StoreRecorder on top of the given inserter.
func NewStoreRecorder(inserter EventInserter) *StoreRecorder {
	return &StoreRecorder{inserter: inserter}
}

// Record serializes the event context and hands the event to the inserter.
func (r *StoreRecorder) Record(ctx context.Context, event Event) error {
	contextJSON, err := encodeContext(event.Context)
	if err != nil {
		return err
	}

	return r.inserter.InsertAuditEvent(
		ctx,
		event.Type,
		event.EntityKind,
		event.EntityID,
		event.ActorID,
		event.ActorRole,
		contextJSON,
	)
}

func encodeContext(context map[string]any) ([]byte, error) {
	if context == nil {
		return []byte("{}"), nil
	}

	return jsoniter.ConfigFastest.Marshal(context)
}
