package circulation

import (
	"time"

	"github.com/google/uuid"
)

const (
	// HoldStatusQueued is the initial state of a freshly placed hold.
	HoldStatusQueued = "QUEUED"

	// HoldStatusReady means a copy has been set aside for the patron.
	// The QUEUED -> READY promotion is driven externally.
	HoldStatusReady = "READY"

	// HoldStatusFulfilled is terminal: the patron picked the copy up.
	HoldStatusFulfilled = "FULFILLED"

	// HoldStatusExpired is terminal: the pickup window lapsed.
	HoldStatusExpired = "EXPIRED"

	// HoldStatusCanceled is terminal: the patron withdrew the hold.
	HoldStatusCanceled = "CANCELED"
)

// Hold represents a patron's place in the queue for a book. For a given
// (patron, book) pair at most one hold may be QUEUED or READY at a time;
// a partial uniqueness constraint at the storage layer is the authoritative
// guard for that invariant.
type Hold struct {
	ID        uuid.UUID  `json:"id"`
	PatronID  string     `json:"patron_id"`
	BookID    uuid.UUID  `json:"book_id"`
	Status    string     `json:"status"`
	PlacedAt  time.Time  `json:"placed_at"`
	ReadyAt   *time.Time `json:"ready_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// IsActive reports whether the hold still occupies the patron's place in the
// queue, meaning it is QUEUED or READY.
func (h Hold) IsActive() bool {
	return h.Status == HoldStatusQueued || h.Status == HoldStatusReady
}
