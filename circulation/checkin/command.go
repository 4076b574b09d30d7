package checkin

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
)

const (
	commandType = "CheckInBookCopy"
)

// Command represents the intent to check a loaned copy back in. LoanID may
// be uuid.Nil, in which case Identifier is resolved first as an exact copy
// barcode and then as a borrower identifier whose most recent active loan
// is taken.
type Command struct {
	LoanID     uuid.UUID
	Identifier string
	Actor      circulation.Actor
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for audit
// attribution and observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	loanID uuid.UUID,
	identifier string,
	actor circulation.Actor,
	occurredAt time.Time,
) Command {

	return Command{
		LoanID:     loanID,
		Identifier: identifier,
		Actor:      actor,
		OccurredAt: occurredAt,
	}
}
