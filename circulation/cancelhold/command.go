package cancelhold

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
)

const (
	commandType = "CancelHold"
)

// Command represents a patron's intent to withdraw a hold they placed.
type Command struct {
	HoldID     uuid.UUID
	PatronID   string
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
	holdID uuid.UUID,
	patronID string,
	actor circulation.Actor,
	occurredAt time.Time,
) Command {

	return Command{
		HoldID:     holdID,
		PatronID:   patronID,
		Actor:      actor,
		OccurredAt: occurredAt,
	}
}
