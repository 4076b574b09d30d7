package addcopy_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/addcopy"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/testutil/auditspy"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/testutil/storagedouble"
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := storagedouble.New()
	recorder := auditspy.NewRecorderSpy()
	handler := addcopy.NewCommandHandler(store, addcopy.WithAuditRecorder(recorder))

	book := seedBook(t, store)

	command := addcopy.BuildCommand(book.ID, "BC-001", givenStaffActor(t), time.Now())

	// act
	copyRow, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err, "Adding a copy to an existing book should succeed")
	assert.Equal(t, circulation.CopyStatusAvailable, copyRow.Status, "A new copy starts available")
	assert.Equal(t, "BC-001", copyRow.Barcode)

	stored, getErr := store.GetCopyByBarcode(ctx, "BC-001")
	assert.NoError(t, getErr)
	assert.Equal(t, book.ID, stored.BookID)

	events := recorder.Events()
	assert.Len(t, events, 1, "One audit event should be recorded")
	assert.Equal(t, "copy_added", events[0].Type)
}

func Test_CommandHandler_Handle_Error_Validation(t *testing.T) {
	// arrange
	ctx := context.Background()
	handler := addcopy.NewCommandHandler(storagedouble.New())

	testCases := []struct {
		name    string
		command addcopy.Command
	}{
		{"missing book", addcopy.BuildCommand(uuid.Nil, "BC-001", givenStaffActor(t), time.Now())},
		{"missing barcode", addcopy.BuildCommand(uuid.New(), "", givenStaffActor(t), time.Now())},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := handler.Handle(ctx, tc.command)

			// assert
			assert.ErrorIs(t, err, circulation.ErrValidation)
		})
	}
}

func Test_CommandHandler_Handle_Error_BookNotFound(t *testing.T) {
	// arrange
	ctx := context.Background()
	handler := addcopy.NewCommandHandler(storagedouble.New())

	command := addcopy.BuildCommand(uuid.New(), "BC-001", givenStaffActor(t), time.Now())

	// act
	_, err := handler.Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, circulation.ErrNotFound)
	assert.Equal(t, "Book not found.", err.Error())
}

func Test_CommandHandler_Handle_Error_DuplicateBarcode(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := storagedouble.New()
	handler := addcopy.NewCommandHandler(store)

	book := seedBook(t, store)
	store.SeedCopy(circulation.Copy{
		ID:      uuid.New(),
		BookID:  book.ID,
		Barcode: "BC-001",
		Status:  circulation.CopyStatusAvailable,
	})

	command := addcopy.BuildCommand(book.ID, "BC-001", givenStaffActor(t), time.Now())

	// act
	_, err := handler.Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, circulation.ErrConflict, "A second copy with the same barcode is rejected")
	assert.Equal(t, "A copy with this barcode already exists.", err.Error())
}

func seedBook(t *testing.T, store *storagedouble.Store) circulation.Book {
	t.Helper()

	book := circulation.Book{
		ID:     uuid.New(),
		Title:  "Refactoring",
		Author: "Martin Fowler",
		ISBN:   "978-0-13-475759-9",
	}
	store.SeedBook(book)

	return book
}

func givenStaffActor(t *testing.T) circulation.Actor {
	t.Helper()

	return circulation.Actor{ID: "staff-7", Role: "staff"}
}
