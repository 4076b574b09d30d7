package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
)

const (
	commandType = "CheckOutBookCopy"
)

// Command represents the intent to check a copy of a book out to a borrower.
// CopyID may be uuid.Nil, in which case the handler picks the first
// available copy of the book. DueDate is the raw caller input and is
// validated by the handler.
type Command struct {
	BookID       uuid.UUID
	CopyID       uuid.UUID
	BorrowerID   string
	BorrowerName string
	DueDate      string
	Actor        circulation.Actor
	OccurredAt   time.Time
}

// CommandType returns the type identifier for this command, used for audit
// attribution and observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	bookID uuid.UUID,
	copyID uuid.UUID,
	borrowerID string,
	borrowerName string,
	dueDate string,
	actor circulation.Actor,
	occurredAt time.Time,
) Command {

	return Command{
		BookID:       bookID,
		CopyID:       copyID,
		BorrowerID:   borrowerID,
		BorrowerName: borrowerName,
		DueDate:      dueDate,
		Actor:        actor,
		OccurredAt:   occurredAt,
	}
}
