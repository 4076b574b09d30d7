package circulation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
)

func Test_Perform_Success(t *testing.T) {
	// arrange
	logger := &loggerSpy{}

	// act
	result := circulation.Perform(logger, "Book checked out.", func() error {
		return nil
	})

	// assert
	assert.Equal(t, circulation.StatusSuccess, result.Status, "Result should be tagged success")
	assert.Equal(t, "Book checked out.", result.Message, "Success message should pass through")
	assert.Empty(t, logger.errorMessages, "Nothing should be logged on success")
}

func Test_Perform_ExpectedError_SurfacesItsMessage(t *testing.T) {
	// arrange
	logger := &loggerSpy{}

	// act
	result := circulation.Perform(logger, "unused", func() error {
		return circulation.ConflictError("Selected copy is not available.")
	})

	// assert
	assert.Equal(t, circulation.StatusError, result.Status, "Result should be tagged error")
	assert.Equal(t, "Selected copy is not available.", result.Message, "Expected errors surface verbatim")
	assert.Empty(t, logger.errorMessages, "Expected errors should not be logged as failures")
}

func Test_Perform_StorageError_MapsToGenericMessage(t *testing.T) {
	// arrange
	logger := &loggerSpy{}
	cause := errors.New("pq: connection refused")

	// act
	result := circulation.Perform(logger, "unused", func() error {
		return circulation.StorageError(cause)
	})

	// assert
	assert.Equal(t, circulation.StatusError, result.Status, "Result should be tagged error")
	assert.Equal(t, circulation.GenericFailureMessage, result.Message, "Storage detail must not leak to callers")
	assert.Len(t, logger.errorMessages, 1, "Storage failures should be logged server-side")
}

func Test_Perform_Panic_IsRecoveredAndMapped(t *testing.T) {
	// arrange
	logger := &loggerSpy{}

	// act
	result := circulation.Perform(logger, "unused", func() error {
		panic("boom")
	})

	// assert
	assert.Equal(t, circulation.StatusError, result.Status, "Result should be tagged error")
	assert.Equal(t, circulation.GenericFailureMessage, result.Message, "Panic detail must not leak to callers")
	assert.Len(t, logger.errorMessages, 1, "Panics should be logged server-side")
}

func Test_Perform_NilLogger_DoesNotPanic(t *testing.T) {
	// act
	result := circulation.Perform(nil, "unused", func() error {
		return circulation.StorageError(errors.New("down"))
	})

	// assert
	assert.Equal(t, circulation.GenericFailureMessage, result.Message, "Generic mapping should work without a logger")
}

func Test_IsExpected_CoversTheBusinessTaxonomy(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"validation", circulation.ValidationError("bad input"), true},
		{"conflict", circulation.ConflictError("taken"), true},
		{"not found", circulation.NotFoundError("missing"), true},
		{"duplicate hold", circulation.DuplicateHoldError("again"), true},
		{"already returned", circulation.AlreadyReturnedError("done"), true},
		{"invalid state", circulation.InvalidStateError("nope"), true},
		{"forbidden", circulation.ForbiddenError("not yours"), true},
		{"storage", circulation.StorageError(errors.New("down")), false},
		{"plain", errors.New("anything"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, circulation.IsExpected(tc.err))
		})
	}
}

func Test_OperationError_UnwrapsToItsSentinel(t *testing.T) {
	// arrange
	err := circulation.DuplicateHoldError("You already have an active hold on this title.")

	// assert
	assert.True(t, errors.Is(err, circulation.ErrDuplicateHold), "Category should be testable with errors.Is")
	assert.Equal(t, "You already have an active hold on this title.", err.Error(), "Message should be the display text")
}

type loggerSpy struct {
	errorMessages []string
	warnMessages  []string
}

func (s *loggerSpy) Debug(string, ...any) {}

func (s *loggerSpy) Info(string, ...any) {}

func (s *loggerSpy) Warn(msg string, _ ...any) {
	s.warnMessages = append(s.warnMessages, msg)
}

func (s *loggerSpy) Error(msg string, _ ...any) {
	s.errorMessages = append(s.errorMessages, msg)
}
