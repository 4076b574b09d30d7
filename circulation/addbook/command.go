package addbook

import (
	"time"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
)

const (
	commandType = "AddBook"
)

// Command represents the intent to add a new title to the catalog.
type Command struct {
	Title          string
	Author         string
	ISBN           string
	Classification string
	Location       string
	Tags           []string
	Actor          circulation.Actor
	OccurredAt     time.Time
}

// CommandType returns the type identifier for this command, used for audit
// attribution and observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	title string,
	author string,
	isbn string,
	classification string,
	location string,
	tags []string,
	actor circulation.Actor,
	occurredAt time.Time,
) Command {

	return Command{
		Title:          title,
		Author:         author,
		ISBN:           isbn,
		Classification: classification,
		Location:       location,
		Tags:           tags,
		Actor:          actor,
		OccurredAt:     occurredAt,
	}
}
