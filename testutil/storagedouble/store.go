// Package storagedouble provides an in-memory implementation of the storage
// operations consumed by the circulation handlers, for tests that need no
// database. It enforces the same uniqueness constraints the Postgres schema
// carries and supports fault injection per mutation, so compensation paths
// can be exercised deterministically.
package storagedouble

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/storage"
)

// Store is the in-memory storage double. Set one of the *Failure fields to
// make the corresponding mutation fail with that error.
type Store struct {
	mu     sync.Mutex
	books  map[uuid.UUID]circulation.Book
	copies []circulation.Copy
	loans  []circulation.Loan
	holds  map[uuid.UUID]circulation.Hold

	InsertBookFailure           error
	DeleteBookFailure           error
	UpdateBookLastTxAtFailure   error
	InsertCopyFailure           error
	UpdateCopyStatusFailure     error
	DeleteCopiesForBookFailure  error
	InsertLoanFailure           error
	UpdateLoanFailure           error
	DeleteLoanFailure           error
	InsertHoldFailure           error
	UpdateHoldStatusFailure     error
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		books: make(map[uuid.UUID]circulation.Book),
		holds: make(map[uuid.UUID]circulation.Hold),
	}
}

// SeedBook adds a book without going through the insert path.
func (s *Store) SeedBook(book circulation.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books[book.ID] = book
}

// SeedCopy adds a copy without going through the insert path.
func (s *Store) SeedCopy(copyRow circulation.Copy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copyRow.Loans = nil
	s.copies = append(s.copies, copyRow)
}

// SeedLoan adds a loan without going through the insert path.
func (s *Store) SeedLoan(loan circulation.Loan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loans = append(s.loans, loan)
}

// SeedHold adds a hold without going through the insert path.
func (s *Store) SeedHold(hold circulation.Hold) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.holds[hold.ID] = hold
}

// Loans returns a snapshot of all loan rows.
func (s *Store) Loans() []circulation.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]circulation.Loan, len(s.loans))
	copy(snapshot, s.loans)

	return snapshot
}

// Holds returns a snapshot of all hold rows.
func (s *Store) Holds() []circulation.Hold {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]circulation.Hold, 0, len(s.holds))
	for _, hold := range s.holds {
		snapshot = append(snapshot, hold)
	}

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].PlacedAt.Before(snapshot[j].PlacedAt)
	})

	return snapshot
}

// InsertBook stores a new book row.
func (s *Store) InsertBook(_ context.Context, book circulation.Book) error {
	if s.InsertBookFailure != nil {
		return s.InsertBookFailure
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.books[book.ID] = book

	return nil
}

// GetBook loads a book by id.
func (s *Store) GetBook(_ context.Context, bookID uuid.UUID) (circulation.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, found := s.books[bookID]
	if !found {
		return circulation.Book{}, storage.ErrNoMatchingRow
	}

	return book, nil
}

// UpdateBookLastTransactionAt sets the book's last-transaction timestamp.
func (s *Store) UpdateBookLastTransactionAt(_ context.Context, bookID uuid.UUID, at time.Time) error {
	if s.UpdateBookLastTxAtFailure != nil {
		return s.UpdateBookLastTxAtFailure
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book, found := s.books[bookID]
	if !found {
		return storage.ErrNoMatchingRow
	}

	book.LastTransactionAt = &at
	s.books[bookID] = book

	return nil
}

// DeleteBook removes a book row.
func (s *Store) DeleteBook(_ context.Context, bookID uuid.UUID) error {
	if s.DeleteBookFailure != nil {
		return s.DeleteBookFailure
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.books[bookID]; !found {
		return storage.ErrNoMatchingRow
	}

	delete(s.books, bookID)

	return nil
}

// CountBooks returns the number of book rows.
func (s *Store) CountBooks(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.books), nil
}

// InsertCopy stores a new copy row, enforcing barcode uniqueness.
func (s *Store) InsertCopy(_ context.Context, copyToInsert circulation.Copy) error {
	if s.InsertCopyFailure != nil {
		return s.InsertCopyFailure
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.copies {
		if existing.Barcode == copyToInsert.Barcode {
			return storage.ErrUniqueViolation
		}
	}

	copyToInsert.Loans = nil
	s.copies = append(s.copies, copyToInsert)

	return nil
}

// GetCopy loads a copy by id with its loans attached.
func (s *Store) GetCopy(_ context.Context, copyID uuid.UUID) (circulation.Copy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.copies {
		if existing.ID == copyID {
			return s.withLoans(existing), nil
		}
	}

	return circulation.Copy{}, storage.ErrNoMatchingRow
}

// GetCopyByBarcode loads a copy by barcode with its loans attached.
func (s *Store) GetCopyByBarcode(_ context.Context, barcode string) (circulation.Copy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.copies {
		if existing.Barcode == barcode {
			return s.withLoans(existing), nil
		}
	}

	return circulation.Copy{}, storage.ErrNoMatchingRow
}

// ListCopiesForBook returns the book's copies in insertion order, each with
// its loans attached.
func (s *Store) ListCopiesForBook(_ context.Context, bookID uuid.UUID) ([]circulation.Copy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]circulation.Copy, 0)
	for _, existing := range s.copies {
		if existing.BookID == bookID {
			result = append(result, s.withLoans(existing))
		}
	}

	return result, nil
}

// ListAllCopies returns every copy with its loans attached.
func (s *Store) ListAllCopies(_ context.Context) ([]circulation.Copy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]circulation.Copy, 0, len(s.copies))
	for _, existing := range s.copies {
		result = append(result, s.withLoans(existing))
	}

	return result, nil
}

// UpdateCopyStatus flips the stored status flag of a copy.
func (s *Store) UpdateCopyStatus(_ context.Context, copyID uuid.UUID, status string) error {
	if s.UpdateCopyStatusFailure != nil {
		return s.UpdateCopyStatusFailure
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.copies {
		if s.copies[i].ID == copyID {
			s.copies[i].Status = status
			return nil
		}
	}

	return storage.ErrNoMatchingRow
}

// DeleteCopiesForBook removes all copies of a book.
func (s *Store) DeleteCopiesForBook(_ context.Context, bookID uuid.UUID) error {
	if s.DeleteCopiesForBookFailure != nil {
		return s.DeleteCopiesForBookFailure
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := s.copies[:0]
	for _, existing := range s.copies {
		if existing.BookID != bookID {
			remaining = append(remaining, existing)
		}
	}
	s.copies = remaining

	return nil
}

// InsertLoan stores a new loan row, enforcing the single-active-loan-per-copy
// constraint the Postgres schema carries.
func (s *Store) InsertLoan(_ context.Context, loan circulation.Loan) error {
	if s.InsertLoanFailure != nil {
		return s.InsertLoanFailure
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if loan.ReturnedAt == nil {
		for _, existing := range s.loans {
			if existing.CopyID == loan.CopyID && existing.ReturnedAt == nil {
				return storage.ErrUniqueViolation
			}
		}
	}

	s.loans = append(s.loans, loan)

	return nil
}

// GetLoan loads a loan by id.
func (s *Store) GetLoan(_ context.Context, loanID uuid.UUID) (circulation.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.loans {
		if existing.ID == loanID {
			return existing, nil
		}
	}

	return circulation.Loan{}, storage.ErrNoMatchingRow
}

// FindActiveLoanForCopy returns the active loan referencing a copy.
func (s *Store) FindActiveLoanForCopy(_ context.Context, copyID uuid.UUID) (circulation.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.loans {
		if existing.CopyID == copyID && existing.ReturnedAt == nil {
			return existing, nil
		}
	}

	return circulation.Loan{}, storage.ErrNoMatchingRow
}

// FindLatestActiveLoanForBorrower returns the most recent active loan of a
// borrower.
func (s *Store) FindLatestActiveLoanForBorrower(_ context.Context, borrowerID string) (circulation.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		latest circulation.Loan
		found  bool
	)

	for _, existing := range s.loans {
		if existing.BorrowerID != borrowerID || existing.ReturnedAt != nil {
			continue
		}

		if !found || existing.BorrowedAt.After(latest.BorrowedAt) {
			latest = existing
			found = true
		}
	}

	if !found {
		return circulation.Loan{}, storage.ErrNoMatchingRow
	}

	return latest, nil
}

// UpdateLoan writes the business-mutable loan fields.
func (s *Store) UpdateLoan(_ context.Context, loan circulation.Loan) error {
	if s.UpdateLoanFailure != nil {
		return s.UpdateLoanFailure
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.loans {
		if s.loans[i].ID == loan.ID {
			s.loans[i].Status = loan.Status
			s.loans[i].ReturnedAt = loan.ReturnedAt
			return nil
		}
	}

	return storage.ErrNoMatchingRow
}

// DeleteLoan removes a loan row.
func (s *Store) DeleteLoan(_ context.Context, loanID uuid.UUID) error {
	if s.DeleteLoanFailure != nil {
		return s.DeleteLoanFailure
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.loans {
		if s.loans[i].ID == loanID {
			s.loans = append(s.loans[:i], s.loans[i+1:]...)
			return nil
		}
	}

	return storage.ErrNoMatchingRow
}

// CountActiveLoans returns the number of loans with no return date.
func (s *Store) CountActiveLoans(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, existing := range s.loans {
		if existing.ReturnedAt == nil {
			count++
		}
	}

	return count, nil
}

// CountOverdueLoans returns the number of active loans past their due date.
func (s *Store) CountOverdueLoans(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, existing := range s.loans {
		if existing.ReturnedAt == nil && existing.DueAt.Before(now) {
			count++
		}
	}

	return count, nil
}

// InsertHold stores a new hold row, enforcing the single-active-hold
// constraint per (patron, book) the Postgres schema carries.
func (s *Store) InsertHold(_ context.Context, hold circulation.Hold) error {
	if s.InsertHoldFailure != nil {
		return s.InsertHoldFailure
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if hold.IsActive() {
		for _, existing := range s.holds {
			if existing.PatronID == hold.PatronID && existing.BookID == hold.BookID && existing.IsActive() {
				return storage.ErrUniqueViolation
			}
		}
	}

	s.holds[hold.ID] = hold

	return nil
}

// GetHold loads a hold by id.
func (s *Store) GetHold(_ context.Context, holdID uuid.UUID) (circulation.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hold, found := s.holds[holdID]
	if !found {
		return circulation.Hold{}, storage.ErrNoMatchingRow
	}

	return hold, nil
}

// FindActiveHold returns the QUEUED or READY hold of a patron on a book.
func (s *Store) FindActiveHold(_ context.Context, patronID string, bookID uuid.UUID) (circulation.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.holds {
		if existing.PatronID == patronID && existing.BookID == bookID && existing.IsActive() {
			return existing, nil
		}
	}

	return circulation.Hold{}, storage.ErrNoMatchingRow
}

// UpdateHoldStatus transitions a hold to the given status.
func (s *Store) UpdateHoldStatus(_ context.Context, holdID uuid.UUID, status string) error {
	if s.UpdateHoldStatusFailure != nil {
		return s.UpdateHoldStatusFailure
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hold, found := s.holds[holdID]
	if !found {
		return storage.ErrNoMatchingRow
	}

	hold.Status = status
	s.holds[holdID] = hold

	return nil
}

// withLoans clones the copy and attaches the loan rows referencing it.
// Callers must hold the mutex.
func (s *Store) withLoans(copyRow circulation.Copy) circulation.Copy {
	for _, loan := range s.loans {
		if loan.CopyID == copyRow.ID {
			copyRow.Loans = append(copyRow.Loans, loan)
		}
	}

	return copyRow
}
