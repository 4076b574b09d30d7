package addcopy

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/audit"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/storage"
)

const (
	msgBookRequired    = "A book must be selected."
	msgBarcodeRequired = "Barcode is required."
	msgBookNotFound    = "Book not found."
	msgBarcodeTaken    = "A copy with this barcode already exists."

	logMsgAuditRecordFailed = "failed to record audit event"
	logAttrError            = "error"

	auditEventType  = "copy_added"
	auditEntityKind = "copy"
)

// Storage defines the storage operations needed by the CommandHandler.
type Storage interface {
	GetBook(ctx context.Context, bookID uuid.UUID) (circulation.Book, error)
	InsertCopy(ctx context.Context, copy circulation.Copy) error
}

// CommandHandler registers a new copy for an existing book.
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

// Handle registers the copy and returns it.
func (h CommandHandler) Handle(ctx context.Context, command Command) (circulation.Copy, error) {
	var empty circulation.Copy

	if command.BookID == uuid.Nil {
		return empty, circulation.ValidationError(msgBookRequired)
	}

	barcode := strings.TrimSpace(command.Barcode)
	if barcode == "" {
		return empty, circulation.ValidationError(msgBarcodeRequired)
	}

	if _, err := h.storage.GetBook(ctx, command.BookID); err != nil {
		if errors.Is(err, storage.ErrNoMatchingRow) {
			return empty, circulation.NotFoundError(msgBookNotFound)
		}

		return empty, circulation.StorageError(err)
	}

	copy := circulation.Copy{
		ID:      uuid.New(),
		BookID:  command.BookID,
		Barcode: barcode,
		Status:  circulation.CopyStatusAvailable,
	}

	if insertErr := h.storage.InsertCopy(ctx, copy); insertErr != nil {
		if errors.Is(insertErr, storage.ErrUniqueViolation) {
			return empty, circulation.ConflictError(msgBarcodeTaken)
		}

		return empty, circulation.StorageError(insertErr)
	}

	h.recordAudit(ctx, command, copy)

	return copy, nil
}

// recordAudit emits the best-effort audit record. Failures are logged and
// never undo the insert.
func (h CommandHandler) recordAudit(ctx context.Context, command Command, copy circulation.Copy) {
	if h.recorder == nil {
		return
	}

	event := audit.Event{
		Type:       auditEventType,
		EntityKind: auditEntityKind,
		EntityID:   copy.ID.String(),
		ActorID:    command.Actor.ID,
		ActorRole:  command.Actor.Role,
		Context: map[string]any{
			"book_id": copy.BookID.String(),
			"barcode": copy.Barcode,
		},
	}

	if recordErr := h.recorder.Record(ctx, event); recordErr != nil {
		if h.logger != nil {
			h.logger.Warn(logMsgAuditRecordFailed, logAttrError, recordErr.Error())
		}
	}
}
