package circulation

import (
	"github.com/google/uuid"
)

const (
	// CopyStatusAvailable marks a copy as lendable, subject to the
	// availability resolver confirming no active loan references it.
	CopyStatusAvailable = "available"

	// CopyStatusLoaned marks a copy as currently lent out.
	CopyStatusLoaned = "loaned"
)

// Copy represents a physical copy of a Book, identified by a unique barcode.
//
// The Status flag alone does not decide availability: a copy is effectively
// available only when its status normalizes to "available" AND no loan
// referencing it is still active. The flag can drift from the loan-derived
// truth if an update step fails, so mutating operations always re-validate
// through IsAvailable before flipping it.
type Copy struct {
	ID      uuid.UUID `json:"id"`
	BookID  uuid.UUID `json:"book_id"`
	Barcode string    `json:"barcode"`
	Status  string    `json:"status"`

	// Loans holds the loan records attached to this copy as loaded by the
	// storage layer (active loans at minimum).
	Loans []Loan `json:"loans,omitempty"`
}
