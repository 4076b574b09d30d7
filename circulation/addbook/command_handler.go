package addbook

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/audit"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
)

const (
	msgTitleRequired  = "Title is required."
	msgAuthorRequired = "Author is required."
	msgISBNRequired   = "ISBN is required."

	logMsgAuditRecordFailed = "failed to record audit event"
	logAttrError            = "error"

	auditEventType  = "book_added"
	auditEntityKind = "book"
)

// Storage defines the storage operations needed by the CommandHandler.
type Storage interface {
	InsertBook(ctx context.Context, book circulation.Book) error
}

// CommandHandler adds a new title to the catalog.
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

// Handle adds the book and returns it.
func (h CommandHandler) Handle(ctx context.Context, command Command) (circulation.Book, error) {
	var empty circulation.Book

	if strings.TrimSpace(command.Title) == "" {
		return empty, circulation.ValidationError(msgTitleRequired)
	}

	if strings.TrimSpace(command.Author) == "" {
		return empty, circulation.ValidationError(msgAuthorRequired)
	}

	if strings.TrimSpace(command.ISBN) == "" {
		return empty, circulation.ValidationError(msgISBNRequired)
	}

	book := circulation.Book{
		ID:             uuid.New(),
		Title:          strings.TrimSpace(command.Title),
		Author:         strings.TrimSpace(command.Author),
		ISBN:           strings.TrimSpace(command.ISBN),
		Classification: command.Classification,
		Location:       command.Location,
		Tags:           command.Tags,
	}

	if insertErr := h.storage.InsertBook(ctx, book); insertErr != nil {
		return empty, circulation.StorageError(insertErr)
	}

	h.recordAudit(ctx, command, book)

	return book, nil
}

// recordAudit emits the best-effort audit record. Failures are logged and
// never undo the insert.
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
