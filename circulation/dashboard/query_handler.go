package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
)

// Storage defines the storage operations needed by the QueryHandler.
type Storage interface {
	CountBooks(ctx context.Context) (int, error)
	ListAllCopies(ctx context.Context) ([]circulation.Copy, error)
	CountActiveLoans(ctx context.Context) (int, error)
	CountOverdueLoans(ctx context.Context, now time.Time) (int, error)
}

// QueryHandler derives the dashboard summary by composing the availability
// resolver over the full copy set. It is read-only and has no failure modes
// beyond propagating storage errors.
type QueryHandler struct {
	storage Storage
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(storage Storage) QueryHandler {
	return QueryHandler{storage: storage}
}

// Handle computes the summary as of now.
func (h QueryHandler) Handle(ctx context.Context, now time.Time) (Summary, error) {
	var empty Summary

	totalBooks, err := h.storage.CountBooks(ctx)
	if err != nil {
		return empty, circulation.StorageError(err)
	}

	copies, err := h.storage.ListAllCopies(ctx)
	if err != nil {
		return empty, circulation.StorageError(err)
	}

	// Distinct titles with at least one available copy, not a copy count.
	availableTitles := make(map[uuid.UUID]struct{})
	for _, copy := range copies {
		if circulation.IsAvailable(copy) {
			availableTitles[copy.BookID] = struct{}{}
		}
	}

	activeLoans, err := h.storage.CountActiveLoans(ctx)
	if err != nil {
		return empty, circulation.StorageError(err)
	}

	overdueLoans, err := h.storage.CountOverdueLoans(ctx, now)
	if err != nil {
		return empty, circulation.StorageError(err)
	}

	return Summary{
		TotalBooks:     totalBooks,
		AvailableBooks: len(availableTitles),
		ActiveLoans:    activeLoans,
		OverdueLoans:   overdueLoans,
	}, nil
}
