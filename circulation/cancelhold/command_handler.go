package cancelhold

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/audit"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/storage"
)

const (
	msgHoldRequired   = "A hold must be selected."
	msgPatronRequired = "Patron identifier is required."
	msgHoldNotFound   = "Hold not found."
	msgNotOwnHold     = "This hold belongs to another patron."
	msgNotCancelable  = "Only queued or ready holds can be canceled."

	logMsgAuditRecordFailed = "failed to record audit event"
	logAttrError            = "error"

	auditEventType  = "hold_canceled"
	auditEntityKind = "hold"
)

// Storage defines the storage operations needed by the CommandHandler.
type Storage interface {
	GetHold(ctx context.Context, holdID uuid.UUID) (circulation.Hold, error)
	UpdateHoldStatus(ctx context.Context, holdID uuid.UUID, status string) error
}

// CommandHandler cancels a hold after verifying ownership and that the hold
// is still in a cancelable state.
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

// Handle cancels the hold and returns it in its CANCELED state.
func (h CommandHandler) Handle(ctx context.Context, command Command) (circulation.Hold, error) {
	var empty circulation.Hold

	if command.HoldID == uuid.Nil {
		return empty, circulation.ValidationError(msgHoldRequired)
	}

	if command.PatronID == "" {
		return empty, circulation.ValidationError(msgPatronRequired)
	}

	hold, err := h.storage.GetHold(ctx, command.HoldID)
	if err != nil {
		if errors.Is(err, storage.ErrNoMatchingRow) {
			return empty, circulation.NotFoundError(msgHoldNotFound)
		}

		return empty, circulation.StorageError(err)
	}

	if hold.PatronID != command.PatronID {
		return empty, circulation.ForbiddenError(msgNotOwnHold)
	}

	if !hold.IsActive() {
		return empty, circulation.InvalidStateError(msgNotCancelable)
	}

	if updateErr := h.storage.UpdateHoldStatus(ctx, hold.ID, circulation.HoldStatusCanceled); updateErr != nil {
		return empty, circulation.StorageError(updateErr)
	}

	hold.Status = circulation.HoldStatusCanceled

	h.recordAudit(ctx, command, hold)

	return hold, nil
}

// recordAudit emits the best-effort audit record. Failures are logged and
// never roll back the cancellation.
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
