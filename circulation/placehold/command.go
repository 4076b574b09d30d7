package placehold

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
)

const (
	commandType = "PlaceHold"
)

// Command represents a patron's intent to queue for a book.
type Command struct {
	PatronID   string
	BookID     uuid.UUID
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
	patronID string,
	bookID uuid.UUID,
	actor circulation.Actor,
	occurredAt time.Time,
) Command {

	return Command{
		PatronID:   patronID,
		BookID:     bookID,
		Actor:      actor,
		OccurredAt: occurredAt,
	}
}
