package circulation

import (
	"time"

	"github.com/google/uuid"
)

// Book represents a catalog title. A Book owns its Copies: it may only be
// deleted after all of its Copies have been deleted, which the remove-book
// operation enforces explicitly instead of relying on a database cascade.
type Book struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Author            string     `json:"author"`
	ISBN              string     `json:"isbn"`
	Classification    string     `json:"classification,omitempty"`
	Location          string     `json:"location,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	LastTransactionAt *time.Time `json:"last_transaction_at,omitempty"`
}
