package removebook_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/removebook"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/testutil/auditspy"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/testutil/storagedouble"
)

func Test_CommandHandler_Handle_Success_RemovesBookAndCopies(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := storagedouble.New()
	recorder := auditspy.NewRecorderSpy()
	handler := removebook.NewCommandHandler(store, removebook.WithAuditRecorder(recorder))

	book := seedBookWithCopies(t, store, 2)

	command := removebook.BuildCommand(book.ID, givenStaffActor(t), time.Now())

	// act
	err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err, "Removing a book with no active loans should succeed")

	_, getErr := store.GetBook(ctx, book.ID)
	assert.Error(t, getErr, "The book row should be gone")

	copies, listErr := store.ListCopiesForBook(ctx, book.ID)
	assert.NoError(t, listErr)
	assert.Empty(t, copies, "All copy rows should be gone")

	events := recorder.Events()
	assert.Len(t, events, 1, "One audit event should be recorded")
	assert.Equal(t, "book_removed", events[0].Type)
}

func Test_CommandHandler_Handle_Success_ReturnedLoansDoNotBlockRemoval(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := storagedouble.New()
	handler := removebook.NewCommandHandler(store)

	book := seedBookWithCopies(t, store, 1)
	copies, _ := store.ListCopiesForBook(ctx, book.ID)
	returnedAt := time.Now().Add(-time.Hour)
	store.SeedLoan(circulation.Loan{
		ID:         uuid.New(),
		CopyID:     copies[0].ID,
		BookID:     book.ID,
		BorrowerID: "M-1001",
		Status:     circulation.LoanStatusReturned,
		BorrowedAt: time.Now().Add(-48 * time.Hour),
		DueAt:      time.Now().Add(12 * 24 * time.Hour),
		ReturnedAt: &returnedAt,
	})

	command := removebook.BuildCommand(book.ID, givenStaffActor(t), time.Now())

	// act
	err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err, "Loan history should not block removal")
}

func Test_CommandHandler_Handle_Error_MissingBookID(t *testing.T) {
	// arrange
	ctx := context.Background()
	handler := removebook.NewCommandHandler(storagedouble.New())

	command := removebook.BuildCommand(uuid.Nil, givenStaffActor(t), time.Now())

	// act
	err := handler.Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, circulation.ErrValidation)
}

func Test_CommandHandler_Handle_Error_BookNotFound(t *testing.T) {
	// arrange
	ctx := context.Background()
	handler := removebook.NewCommandHandler(storagedouble.New())

	command := removebook.BuildCommand(uuid.New(), givenStaffActor(t), time.Now())

	// act
	err := handler.Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, circulation.ErrNotFound)
	assert.Equal(t, "Book not found.", err.Error())
}

func Test_CommandHandler_Handle_Error_ActiveLoanBlocksRemoval(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := storagedouble.New()
	handler := removebook.NewCommandHandler(store)

	book := seedBookWithCopies(t, store, 2)
	copies, _ := store.ListCopiesForBook(ctx, book.ID)
	store.SeedLoan(circulation.Loan{
		ID:         uuid.New(),
		CopyID:     copies[1].ID,
		BookID:     book.ID,
		BorrowerID: "M-1001",
		Status:     circulation.LoanStatusBorrowed,
		BorrowedAt: time.Now().Add(-time.Hour),
		DueAt:      time.Now().Add(13 * 24 * time.Hour),
	})

	command := removebook.BuildCommand(book.ID, givenStaffActor(t), time.Now())

	// act
	err := handler.Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, circulation.ErrConflict, "A copy out on loan must block removal")
	assert.Equal(t, "This title still has copies out on loan.", err.Error())

	_, getErr := store.GetBook(ctx, book.ID)
	assert.NoError(t, getErr, "The book row should survive")

	remaining, listErr := store.ListCopiesForBook(ctx, book.ID)
	assert.NoError(t, listErr)
	assert.Len(t, remaining, 2, "The copy rows should survive")
}

func seedBookWithCopies(t *testing.T, store *storagedouble.Store, copyCount int) circulation.Book {
	t.Helper()

	book := circulation.Book{
		ID:     uuid.New(),
		Title:  "The Go Programming Language",
		Author: "Donovan and Kernighan",
		ISBN:   "978-0-13-419044-0",
	}
	store.SeedBook(book)

	for i := 0; i < copyCount; i++ {
		store.SeedCopy(circulation.Copy{
			ID:      uuid.New(),
			BookID:  book.ID,
			Barcode: uuid.NewString(),
			Status:  circulation.CopyStatusAvailable,
		})
	}

	return book
}

func givenStaffActor(t *testing.T) circulation.Actor {
	t.Helper()

	return circulation.Actor{ID: "staff-7", Role: "staff"}
}
