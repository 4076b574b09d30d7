package checkout

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
	dueDateLayout = "2006-01-02"

	msgBookRequired         = "A book must be selected."
	msgBorrowerIDRequired   = "Borrower identifier is required."
	msgBorrowerNameRequired = "Borrower name is required."
	msgDueDateRequired      = "Due date is required."
	msgDueDateInvalid       = "Due date is not a valid date."
	msgCopyNotFound         = "Copy not found."
	msgCopyWrongBook        = "Selected copy does not belong to this title."
	msgCopyNotAvailable     = "Selected copy is not available."
	msgNoAvailableCopies    = "No available copies for this title."
	msgCopyJustLoaned       = "This copy has just been checked out."

	logMsgLoanRollbackFailed = "failed to roll back loan insert after copy update failure"
	logMsgAuditRecordFailed  = "failed to record audit event"
	logAttrError             = "error"
	logAttrLoanID            = "loan_id"
	logAttrCopyID            = "copy_id"

	auditEventType  = "book_checked_out"
	auditEntityKind = "loan"
)

// Storage defines the storage operations needed by the CommandHandler.
type Storage interface {
	GetCopy(ctx context.Context, copyID uuid.UUID) (circulation.Copy, error)
	ListCopiesForBook(ctx context.Context, bookID uuid.UUID) ([]circulation.Copy, error)
	InsertLoan(ctx context.Context, loan circulation.Loan) error
	DeleteLoan(ctx context.Context, loanID uuid.UUID) error
	UpdateCopyStatus(ctx context.Context, copyID uuid.UUID, status string) error
}

// CommandHandler orchestrates the checkout workflow:
// validate -> select copy -> insert loan -> flip copy status.
//
// There is no ambient transaction around the two mutations, so the handler
// carries an explicit compensation: when the copy flip fails after the loan
// insert committed, the loan is deleted again and the whole operation fails.
// The system must never leave a borrowed loan pointing at a copy still
// marked available, nor the inverse uncorrected.
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

// Handle executes the checkout workflow and returns the created loan.
func (h CommandHandler) Handle(ctx context.Context, command Command) (circulation.Loan, error) {
	var empty circulation.Loan

	dueAt, err := validate(command)
	if err != nil {
		return empty, err
	}

	copyToLend, err := h.selectCopy(ctx, command)
	if err != nil {
		return empty, err
	}

	occurredAt := command.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	loan := circulation.Loan{
		ID:           uuid.New(),
		CopyID:       copyToLend.ID,
		BookID:       command.BookID,
		BorrowerID:   command.BorrowerID,
		BorrowerName: command.BorrowerName,
		Status:       circulation.LoanStatusBorrowed,
		BorrowedAt:   occurredAt,
		DueAt:        dueAt,
	}

	if insertErr := h.storage.InsertLoan(ctx, loan); insertErr != nil {
		if errors.Is(insertErr, storage.ErrUniqueViolation) {
			// The per-copy single-active-loan constraint closed a race the
			// advisory availability check could not see.
			return empty, circulation.ConflictError(msgCopyJustLoaned)
		}

		return empty, circulation.StorageError(insertErr)
	}

	if flipErr := h.storage.UpdateCopyStatus(ctx, copyToLend.ID, circulation.CopyStatusLoaned); flipErr != nil {
		h.rollbackLoanInsert(ctx, loan)
		return empty, circulation.StorageError(flipErr)
	}

	h.recordAudit(ctx, command, loan)

	return loan, nil
}

// validate checks the required business fields and parses the due date.
func validate(command Command) (time.Time, error) {
	var zero time.Time

	if command.BookID == uuid.Nil {
		return zero, circulation.ValidationError(msgBookRequired)
	}

	if command.BorrowerID == "" {
		return zero, circulation.ValidationError(msgBorrowerIDRequired)
	}

	if command.BorrowerName == "" {
		return zero, circulation.ValidationError(msgBorrowerNameRequired)
	}

	if command.DueDate == "" {
		return zero, circulation.ValidationError(msgDueDateRequired)
	}

	dueAt, parseErr := parseDueDate(command.DueDate)
	if parseErr != nil {
		return zero, circulation.ValidationError(msgDueDateInvalid)
	}

	return dueAt, nil
}

func parseDueDate(raw string) (time.Time, error) {
	if dueAt, err := time.Parse(time.RFC3339, raw); err == nil {
		return dueAt, nil
	}

	return time.Parse(dueDateLayout, raw)
}

// selectCopy resolves the copy to lend, re-validating effective availability
// through the resolver instead of trusting the stored status flag.
func (h CommandHandler) selectCopy(ctx context.Context, command Command) (circulation.Copy, error) {
	var empty circulation.Copy

	if command.CopyID != uuid.Nil {
		requested, err := h.storage.GetCopy(ctx, command.CopyID)
		if err != nil {
			if errors.Is(err, storage.ErrNoMatchingRow) {
				return empty, circulation.NotFoundError(msgCopyNotFound)
			}

			return empty, circulation.StorageError(err)
		}

		if requested.BookID != command.BookID {
			return empty, circulation.ConflictError(msgCopyWrongBook)
		}

		if !circulation.IsAvailable(requested) {
			return empty, circulation.ConflictError(msgCopyNotAvailable)
		}

		return requested, nil
	}

	copies, err := h.storage.ListCopiesForBook(ctx, command.BookID)
	if err != nil {
		return empty, circulation.StorageError(err)
	}

	firstAvailable, found := circulation.FindFirstAvailable(copies)
	if !found {
		return empty, circulation.NotFoundError(msgNoAvailableCopies)
	}

	return firstAvailable, nil
}

// rollbackLoanInsert deletes the loan inserted moments earlier. A failed
// rollback leaves the stores disagreeing, which is only logged here: the
// storage constraint remains the hard guard and the operation still fails.
func (h CommandHandler) rollbackLoanInsert(ctx context.Context, loan circulation.Loan) {
	if deleteErr := h.storage.DeleteLoan(ctx, loan.ID); deleteErr != nil {
		if h.logger != nil {
			h.logger.Error(logMsgLoanRollbackFailed,
				logAttrError, deleteErr.Error(),
				logAttrLoanID, loan.ID.String(),
				logAttrCopyID, loan.CopyID.String(),
			)
		}
	}
}

// recordAudit emits the best-effort audit record. Failures are logged and
// never roll back the loan.
func (h CommandHandler) recordAudit(ctx context.Context, command Command, loan circulation.Loan) {
	if h.recorder == nil {
		return
	}

	event := audit.Event{
		Type:       auditEventType,
		EntityKind: auditEntityKind,
		EntityID:   loan.ID.String(),
		ActorID:    command.Actor.ID,
		ActorRole:  command.Actor.Role,
		Context: map[string]any{
			"book_id":     loan.BookID.String(),
			"copy_id":     loan.CopyID.String(),
			"borrower_id": loan.BorrowerID,
			"due_at":      loan.DueAt,
		},
	}

	if recordErr := h.recorder.Record(ctx, event); recordErr != nil {
		if h.logger != nil {
			h.logger.Warn(logMsgAuditRecordFailed, logAttrError, recordErr.Error())
		}
	}
}
