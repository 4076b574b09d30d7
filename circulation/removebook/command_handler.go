package removebook

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/audit"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/storage"
)

const (
	msgBookRequired = "A book must be selected."
	msgBookNotFound = "Book not found."
	msgCopiesOnLoan = "This title still has copies out on loan."

	logMsgAuditRecordFailed = "failed to record audit event"
	logAttrError            = "error"

	auditEventType  = "book_removed"
	auditEntityKind = "book"
)

// Storage defines the storage operations needed by the CommandHandler.
type Storage interface {
	GetBook(ctx context.Context, bookID uuid.UUID) (circulation.Book, error)
	ListCopiesForBook(ctx context.Context, bookID uuid.UUID) ([]circulation.Copy, error)
	DeleteCopiesForBook(ctx context.Context, bookID uuid.UUID) error
	DeleteBook(ctx context.Context, bookID uuid.UUID) error
}

// CommandHandler deletes a book after its copies. Copy deletion is
// idempotent, so a failure between the two deletes leaves a copy-less book
// that a retry removes; no compensation step is needed.
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

// Handle deletes the book's copies and then the book itself.
func (h CommandHandler) Handle(ctx context.Context, command Command) error {
	if command.BookID == uuid.Nil {
		return circulation.ValidationError(msgBookRequired)
	}

	book, err := h.storage.GetBook(ctx, command.BookID)
	if err != nil {
		if errors.Is(err, storage.ErrNoMatchingRow) {
			return circulation.NotFoundError(msgBookNotFound)
		}

		return circulation.StorageError(err)
	}

	copies, err := h.storage.ListCopiesForBook(ctx, command.BookID)
	if err != nil {
		return circulation.StorageError(err)
	}

	for _, copy := range copies {
		for _, loan := range copy.Loans {
			if loan.ReturnedAt == nil {
				return circulation.ConflictError(msgCopiesOnLoan)
			}
		}
	}

	if deleteErr := h.storage.DeleteCopiesForBook(ctx, command.BookID); deleteErr != nil {
		return circulation.StorageError(deleteErr)
	}

	if deleteErr := h.storage.DeleteBook(ctx, command.BookID); deleteErr != nil {
		return circulation.StorageError(deleteErr)
	}

	h.recordAudit(ctx, command, book)

	return nil
}

// recordAudit emits the best-effort audit record. Failures are logged and
// never undo the deletion.
func (h CommandHandler) recordAudit(ctx context.Context, command Command, book circulation.Book) {
	if h.recorder == nil {
		return
	}

	event := audit.Event{
		Type:       auditEventType,
		EntityKind: auditEntityKind,
		EntityID:   book.ID.String(),
		ActorID:    command.Actor.ID,
		ActorRole:  command.Actor.Role,
		Context: map[string]any{
			"title": book.Title,
			"isbn":  book.ISBN,
		},
	}

	if recordErr := h.recorder.Record(ctx, event); recordErr != nil {
		if h.logger != nil {
			h.logger.Warn(logMsgAuditRecordFailed, logAttrError, recordErr.Error())
		}
	}
}
