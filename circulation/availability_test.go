package circulation_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
)

func Test_IsAvailable_True_WhenStatusAvailableAndNoLoans(t *testing.T) {
	// arrange
	copyRow := givenCopy(t, circulation.CopyStatusAvailable)

	// act + assert
	assert.True(t, circulation.IsAvailable(copyRow), "Copy with available status and no loans should be available")
}

func Test_IsAvailable_True_WhenStatusHasCasingAndWhitespaceNoise(t *testing.T) {
	// arrange
	copyRow := givenCopy(t, "  Available ")

	// act + assert
	assert.True(t, circulation.IsAvailable(copyRow), "Status comparison should normalize casing and whitespace")
}

func Test_IsAvailable_False_WhenStatusLoaned(t *testing.T) {
	// arrange
	copyRow := givenCopy(t, circulation.CopyStatusLoaned)

	// act + assert
	assert.False(t, circulation.IsAvailable(copyRow), "Copy with loaned status should not be available")
}

func Test_IsAvailable_False_WhenActiveLoanContradictsStatus(t *testing.T) {
	// arrange
	copyRow := givenCopy(t, circulation.CopyStatusAvailable)
	copyRow.Loans = []circulation.Loan{givenActiveLoan(t, copyRow.ID)}

	// act + assert
	assert.False(t, circulation.IsAvailable(copyRow), "An active loan should override the stored status flag")
}

func Test_IsAvailable_True_WhenAllLoansReturned(t *testing.T) {
	// arrange
	copyRow := givenCopy(t, circulation.CopyStatusAvailable)
	copyRow.Loans = []circulation.Loan{
		givenReturnedLoan(t, copyRow.ID),
		givenReturnedLoan(t, copyRow.ID),
	}

	// act + assert
	assert.True(t, circulation.IsAvailable(copyRow), "Returned loans should not block availability")
}

func Test_FindFirstAvailable_ReturnsFirstMatchInOrder(t *testing.T) {
	// arrange
	loaned := givenCopy(t, circulation.CopyStatusLoaned)
	blocked := givenCopy(t, circulation.CopyStatusAvailable)
	blocked.Loans = []circulation.Loan{givenActiveLoan(t, blocked.ID)}
	first := givenCopy(t, circulation.CopyStatusAvailable)
	second := givenCopy(t, circulation.CopyStatusAvailable)

	// act
	found, ok := circulation.FindFirstAvailable([]circulation.Copy{loaned, blocked, first, second})

	// assert
	assert.True(t, ok, "An available copy should be found")
	assert.Equal(t, first.ID, found.ID, "The first available copy in order should win")
}

func Test_FindFirstAvailable_NotFound_WhenNoCopyAvailable(t *testing.T) {
	// arrange
	loaned := givenCopy(t, circulation.CopyStatusLoaned)
	blocked := givenCopy(t, circulation.CopyStatusAvailable)
	blocked.Loans = []circulation.Loan{givenActiveLoan(t, blocked.ID)}

	// act
	_, ok := circulation.FindFirstAvailable([]circulation.Copy{loaned, blocked})

	// assert
	assert.False(t, ok, "No copy should be found when none is effectively available")
}

func Test_FindFirstAvailable_NotFound_WhenNoCopies(t *testing.T) {
	// act
	_, ok := circulation.FindFirstAvailable(nil)

	// assert
	assert.False(t, ok, "No copy should be found in an empty set")
}

// The resolver must agree with itself: whatever FindFirstAvailable returns
// satisfies IsAvailable, is the earliest such copy in order, and when it
// reports no match then no copy in the set is available.
func Test_FindFirstAvailable_Property_AgreesWithResolver(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		copies := rapid.SliceOfN(copyGen(), 0, 12).Draw(rt, "copies")

		found, ok := circulation.FindFirstAvailable(copies)

		if ok {
			assert.True(t, circulation.IsAvailable(found), "Returned copy must be available")

			for _, candidate := range copies {
				if candidate.ID == found.ID {
					break
				}

				assert.False(t, circulation.IsAvailable(candidate), "No earlier copy may be available")
			}
		} else {
			for _, candidate := range copies {
				assert.False(t, circulation.IsAvailable(candidate), "No copy may be available when none is returned")
			}
		}
	})
}

func copyGen() *rapid.Generator[circulation.Copy] {
	return rapid.Custom(func(rt *rapid.T) circulation.Copy {
		copyRow := circulation.Copy{
			ID:     uuid.New(),
			BookID: uuid.New(),
			Status: rapid.SampledFrom([]string{
				circulation.CopyStatusAvailable,
				circulation.CopyStatusLoaned,
				" Available",
				"AVAILABLE",
			}).Draw(rt, "status"),
		}

		loanCount := rapid.IntRange(0, 3).Draw(rt, "loan_count")
		for i := 0; i < loanCount; i++ {
			if rapid.Bool().Draw(rt, "returned") {
				copyRow.Loans = append(copyRow.Loans, circulation.Loan{
					ID:         uuid.New(),
					CopyID:     copyRow.ID,
					Status:     circulation.LoanStatusReturned,
					ReturnedAt: timePtr(time.Now()),
				})
			} else {
				copyRow.Loans = append(copyRow.Loans, circulation.Loan{
					ID:     uuid.New(),
					CopyID: copyRow.ID,
					Status: circulation.LoanStatusBorrowed,
				})
			}
		}

		return copyRow
	})
}

func givenCopy(t *testing.T, status string) circulation.Copy {
	t.Helper()

	return circulation.Copy{
		ID:      uuid.New(),
		BookID:  uuid.New(),
		Barcode: uuid.NewString(),
		Status:  status,
	}
}

func givenActiveLoan(t *testing.T, copyID uuid.UUID) circulation.Loan {
	t.Helper()

	return circulation.Loan{
		ID:         uuid.New(),
		CopyID:     copyID,
		Status:     circulation.LoanStatusBorrowed,
		BorrowedAt: time.Now().Add(-24 * time.Hour),
		DueAt:      time.Now().Add(13 * 24 * time.Hour),
	}
}

func givenReturnedLoan(t *testing.T, copyID uuid.UUID) circulation.Loan {
	t.Helper()

	returnedAt := time.Now().Add(-time.Hour)

	return circulation.Loan{
		ID:         uuid.New(),
		CopyID:     copyID,
		Status:     circulation.LoanStatusReturned,
		BorrowedAt: time.Now().Add(-48 * time.Hour),
		DueAt:      time.Now().Add(12 * 24 * time.Hour),
		ReturnedAt: &returnedAt,
	}
}

func timePtr(ts time.Time) *time.Time {
	return &ts
}
