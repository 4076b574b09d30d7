package circulation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// LoanStatusBorrowed marks a loan that is currently out.
	LoanStatusBorrowed = "borrowed"

	// LoanStatusOverdue marks a loan that is out past its due date.
	LoanStatusOverdue = "overdue"

	// LoanStatusReturned marks a loan that has been checked in.
	LoanStatusReturned = "returned"
)

// Loan represents one copy lent to one borrower. BookID is denormalized from
// the copy for query convenience. A loan is created at checkout and mutated
// exactly once at check-in, when Status flips to returned and ReturnedAt is
// set.
type Loan struct {
	ID           uuid.UUID  `json:"id"`
	CopyID       uuid.UUID  `json:"copy_id"`
	BookID       uuid.UUID  `json:"book_id"`
	BorrowerID   string     `json:"borrower_id"`
	BorrowerName string     `json:"borrower_name"`
	Status       string     `json:"status"`
	BorrowedAt   time.Time  `json:"borrowed_at"`
	DueAt        time.Time  `json:"due_at"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
}

// IsActive reports whether the loan is still out. ReturnedAt being unset is
// the authoritative signal, not the status flag.
func (l Loan) IsActive() bool {
	return l.ReturnedAt == nil
}

// IsOverdue reports whether the loan is active and past its due date.
func (l Loan) IsOverdue(now time.Time) bool {
	return l.IsActive() && l.DueAt.Before(now)
}

// NormalizedStatus returns the loan status trimmed and lower-cased for
// comparisons against the status constants.
func (l Loan) NormalizedStatus() string {
	return strings.ToLower(strings.TrimSpace(l.Status))
}
