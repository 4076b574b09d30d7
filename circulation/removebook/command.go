package removebook

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
)

const (
	commandType = "RemoveBook"
)

// Command represents the intent to delete a book and its copies.
type Command struct {
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
func BuildCommand(bookID uuid.UUID, actor circulation.Actor, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		Actor:      actor,
		OccurredAt: occurredAt,
	}
}
