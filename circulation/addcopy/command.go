package addcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
)

const (
	commandType = "AddBookCopy"
)

// Command represents the intent to register a new copy of a book.
type Command struct {
	BookID     uuid.UUID
	Barcode    string
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
	bookID uuid.UUID,
	barcode string,
	actor circulation.Actor,
	occurredAt time.Time,
) Command {

	return Command{
		BookID:     bookID,
		Barcode:    barcode,
		Actor:      actor,
		OccurredAt: occurredAt,
	}
}
