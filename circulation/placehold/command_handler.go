package placehold

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/audit"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/storage"
)

const (
	msgPatronRequired = "Patron identifier is required."
	msgBookRequired   = "A book must be selected."
	msgDuplicateHold  = "You already have an active hold on this title."

	logMsgAuditRecordFailed = "failed to record audit event"
	logAttrError            = "error"

	auditEventType  = "hold_placed"
	auditEntityKind = "hold"
)

// Storage defines the storage operations needed by the CommandHandler.
type Storage interface {
	FindActiveHold(ctx context.Context, patronID string, bookID uuid.UUID) (circulation.Hold, error)
	InsertHold(ctx context.Context, hold circulation.Hold) error
}

// CommandHandler places a hold: advisory duplicate pre-check, then insert
// in QUEUED state. The pre-check is subject to a read-then-write race, so
// a uniqueness violation reported by the insert itself is mapped to the
// same duplicate-hold failure.
type CommandHandler struct {
	storage  Storage
	recorder audit.Recorder
	logger   circulation.Logger
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithAuditRecorder sets the best-effort audit sink for the handler.
func WithAuditRecorder(recorder audit.Recorder) Option {
	return func(h *CommandHandler) {
		h.recorder = recorder
	}
}

// WithLogger sets the logger used for non-fatal failures.
func WithLogger(logger circulation.Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(storage Storage, opts ...Option) CommandHandler {
	handler := CommandHandler{storage: storage}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle places the hold and returns it.
func (h CommandHandler) Handle(ctx context.Context, command Command) (circulation.Hold, error) {
	var empty circulation.Hold

	if command.PatronID == "" {
		return empty, circulation.ValidationError(msgPatronRequired)
	}

	if command.BookID == uuid.Nil {
		return empty, circulation.ValidationError(msgBookRequired)
	}

	_, lookupErr := h.storage.FindActiveHold(ctx, command.PatronID, command.BookID)
	if lookupErr == nil {
		return empty, circulation.DuplicateHoldError(msgDuplicateHold)
	}
	if !errors.Is(lookupErr, storage.ErrNoMatchingRow) {
		return empty, circulation.StorageError(lookupErr)
	}

	occurredAt := command.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	hold := circulation.Hold{
		ID:       uuid.New(),
		PatronID: command.PatronID,
		BookID:   command.BookID,
		Status:   circulation.HoldStatusQueued,
		PlacedAt: occurredAt,
	}

	if insertErr := h.storage.InsertHold(ctx, hold); insertErr != nil {
		if errors.Is(insertErr, storage.ErrUniqueViolation) {
			return empty, circulation.DuplicateHoldError(msgDuplicateHold)
		}

		return empty, circulation.StorageError(insertErr)
	}

	h.recordAudit(ctx, command, hold)

	return hold, nil
}

// recordAudit emits the best-effort audit record. Failures are logged and
// never roll back the hold.
func (h CommandHandler) recordAudit(ctx context.Context, command Command, hold circulation.Hold) {
	if h.recorder == nil {
		return
	}

	event := audit.Event{
		Type:       auditEventType,
		EntityKind: auditEntityKind,
		EntityID:   hold.ID.String(),
		ActorID:    command.Actor.ID,
		ActorRole:  command.Actor.Role,
		Context: map[string]any{
			"book_id":   hold.BookID.String(),
			"patron_id": hold.PatronID,
		},
	}

	if recordErr := h.recorder.Record(ctx, event); recordErr != nil {
		if h.logger != nil {
			h.logger.Warn(logMsgAuditRecordFailed, logAttrError, recordErr.Error())
		}
	}
}
