package checkin

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
	msgIdentifierRequired = "A loan id or an identifier is required."
	msgLoanNotFound       = "Loan not found."
	msgNoActiveLoan       = "No active loan found for this identifier."
	msgAlreadyReturned    = "This loan has already been returned."
	msgNotReturnable      = "Loan is not in a returnable state."

	logMsgLoanRevertFailed      = "failed to revert loan update after copy update failure"
	logMsgLastTransactionFailed = "failed to propagate book last-transaction timestamp"
	logMsgAuditRecordFailed     = "failed to record audit event"
	logAttrError                = "error"
	logAttrLoanID               = "loan_id"
	logAttrBookID               = "book_id"

	auditEventType  = "book_checked_in"
	auditEntityKind = "loan"
)

// Storage defines the storage operations needed by the CommandHandler.
type Storage interface {
	GetLoan(ctx context.Context, loanID uuid.UUID) (circulation.Loan, error)
	GetCopyByBarcode(ctx context.Context, barcode string) (circulation.Copy, error)
	FindActiveLoanForCopy(ctx context.Context, copyID uuid.UUID) (circulation.Loan, error)
	FindLatestActiveLoanForBorrower(ctx context.Context, borrowerID string) (circulation.Loan, error)
	UpdateLoan(ctx context.Context, loan circulation.Loan) error
	UpdateCopyStatus(ctx context.Context, copyID uuid.UUID, status string) error
	UpdateBookLastTransactionAt(ctx context.Context, bookID uuid.UUID, at time.Time) error
}

// CommandHandler orchestrates the check-in workflow:
// resolve loan -> close loan -> flip copy status.
//
// Symmetric to checkout, the handler compensates when the second mutation
// fails: the loan update is reverted to its prior status with ReturnedAt
// cleared, so loan state and copy state never permanently disagree.
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

// Handle executes the check-in workflow and returns the closed loan.
func (h CommandHandler) Handle(ctx context.Context, command Command) (circulation.Loan, error) {
	var empty circulation.Loan

	if command.LoanID == uuid.Nil && command.Identifier == "" {
		return empty, circulation.ValidationError(msgIdentifierRequired)
	}

	loan, err := h.resolveLoan(ctx, command)
	if err != nil {
		return empty, err
	}

	if loan.ReturnedAt != nil {
		return empty, circulation.AlreadyReturnedError(msgAlreadyReturned)
	}

	normalized := loan.NormalizedStatus()
	if normalized != circulation.LoanStatusBorrowed && normalized != circulation.LoanStatusOverdue {
		return empty, circulation.InvalidStateError(msgNotReturnable)
	}

	occurredAt := command.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	priorStatus := loan.Status
	loan.Status = circulation.LoanStatusReturned
	loan.ReturnedAt = &occurredAt

	if updateErr := h.storage.UpdateLoan(ctx, loan); updateErr != nil {
		return empty, circulation.StorageError(updateErr)
	}

	if flipErr := h.storage.UpdateCopyStatus(ctx, loan.CopyID, circulation.CopyStatusAvailable); flipErr != nil {
		h.revertLoanUpdate(ctx, loan, priorStatus)
		return empty, circulation.StorageError(flipErr)
	}

	h.propagateLastTransaction(ctx, loan.BookID, occurredAt)
	h.recordAudit(ctx, command, loan)

	return loan, nil
}

// resolveLoan locates the loan to close. Resolution order when no loan id
// is given: exact copy match by barcode first, then the most recent active
// loan of the borrower identifier.
func (h CommandHandler) resolveLoan(ctx context.Context, command Command) (circulation.Loan, error) {
	var empty circulation.Loan

	if command.LoanID != uuid.Nil {
		loan, err := h.storage.GetLoan(ctx, command.LoanID)
		if err != nil {
			if errors.Is(err, storage.ErrNoMatchingRow) {
				return empty, circulation.NotFoundError(msgLoanNotFound)
			}

			return empty, circulation.StorageError(err)
		}

		return loan, nil
	}

	loan, err := h.resolveLoanByBarcode(ctx, command.Identifier)
	if err == nil {
		return loan, nil
	}
	if !errors.Is(err, storage.ErrNoMatchingRow) {
		return empty, circulation.StorageError(err)
	}

	loan, err = h.storage.FindLatestActiveLoanForBorrower(ctx, command.Identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNoMatchingRow) {
			return empty, circulation.NotFoundError(msgNoActiveLoan)
		}

		return empty, circulation.StorageError(err)
	}

	return loan, nil
}

func (h CommandHandler) resolveLoanByBarcode(ctx context.Context, barcode string) (circulation.Loan, error) {
	copyMatch, err := h.storage.GetCopyByBarcode(ctx, barcode)
	if err != nil {
		return circulation.Loan{}, err
	}

	return h.storage.FindActiveLoanForCopy(ctx, copyMatch.ID)
}

// revertLoanUpdate restores the loan to its pre-check-in state. A failed
// revert leaves the stores disagreeing, which is only logged here: the
// operation still fails and the caller may retry.
func (h CommandHandler) revertLoanUpdate(ctx context.Context, loan circulation.Loan, priorStatus string) {
	loan.Status = priorStatus
	loan.ReturnedAt = nil

	if revertErr := h.storage.UpdateLoan(ctx, loan); revertErr != nil {
		if h.logger != nil {
			h.logger.Error(logMsgLoanRevertFailed,
				logAttrError, revertErr.Error(),
				logAttrLoanID, loan.ID.String(),
			)
		}
	}
}

// propagateLastTransaction updates the book's last-transaction timestamp.
// This is a secondary update: failure is logged, not fatal.
func (h CommandHandler) propagateLastTransaction(ctx context.Context, bookID uuid.UUID, at time.Time) {
	if propagateErr := h.storage.UpdateBookLastTransactionAt(ctx, bookID, at); propagateErr != nil {
		if h.logger != nil {
			h.logger.Warn(logMsgLastTransactionFailed,
				logAttrError, propagateErr.Error(),
				logAttrBookID, bookID.String(),
			)
		}
	}
}

// recordAudit emits the best-effort audit record. Failures are logged and
// never roll back the check-in.
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
			"returned_at": loan.ReturnedAt,
		},
	}

	if recordErr := h.recorder.Record(ctx, event); recordErr != nil {
		if h.logger != nil {
			h.logger.Warn(logMsgAuditRecordFailed, logAttrError, recordErr.Error())
		}
	}
}
