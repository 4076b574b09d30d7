package circulation

import (
	"errors"
)

// Sentinel errors forming the internal failure taxonomy of the engine.
// Expected conditions (everything except ErrStorage) are mapped to a
// user-displayable message at the operation boundary; storage failures are
// logged in full server-side and surfaced as a generic message.
var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflicting copy or book state")
	ErrNotFound        = errors.New("no matching entity found")
	ErrDuplicateHold   = errors.New("an active hold already exists")
	ErrAlreadyReturned = errors.New("loan is already returned")
	ErrInvalidState    = errors.New("illegal state transition")
	ErrForbidden       = errors.New("actor does not own this entity")
	ErrStorage         = errors.New("storage operation failed")
)

// OperationError carries a user-displayable message together with the
// taxonomy sentinel it belongs to, so callers can both test the category
// with errors.Is and show the message verbatim.
type OperationError struct {
	kind    error
	message string
}

// Error returns the user-displayable message.
func (e *OperationError) Error() string {
	return e.message
}

// Unwrap returns the taxonomy sentinel, enabling errors.Is checks.
func (e *OperationError) Unwrap() error {
	return e.kind
}

// ValidationError builds an expected bad-input failure.
func ValidationError(message string) error {
	return &OperationError{kind: ErrValidation, message: message}
}

// ConflictError builds an expected copy/book mismatch or unavailability failure.
func ConflictError(message string) error {
	return &OperationError{kind: ErrConflict, message: message}
}

// NotFoundError builds an expected no-matching-entity failure.
func NotFoundError(message string) error {
	return &OperationError{kind: ErrNotFound, message: message}
}

// DuplicateHoldError builds an expected duplicate-hold failure.
func DuplicateHoldError(message string) error {
	return &OperationError{kind: ErrDuplicateHold, message: message}
}

// AlreadyReturnedError builds an expected double-check-in failure.
func AlreadyReturnedError(message string) error {
	return &OperationError{kind: ErrAlreadyReturned, message: message}
}

// InvalidStateError builds an expected illegal-transition failure.
func InvalidStateError(message string) error {
	return &OperationError{kind: ErrInvalidState, message: message}
}

// ForbiddenError builds an expected ownership failure.
func ForbiddenError(message string) error {
	return &OperationError{kind: ErrForbidden, message: message}
}

// StorageError wraps an underlying read/write failure. The cause stays
// attached for server-side logging; it is never shown to the caller.
func StorageError(cause error) error {
	return errors.Join(ErrStorage, cause)
}

// IsExpected reports whether the error is a recoverable business condition
// that may be surfaced to the caller verbatim.
func IsExpected(err error) bool {
	for _, sentinel := range []error{
		ErrValidation,
		ErrConflict,
		ErrNotFound,
		ErrDuplicateHold,
		ErrAlreadyReturned,
		ErrInvalidState,
		ErrForbidden,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}
