package circulation

const (
	// StatusSuccess tags a successful operation result.
	StatusSuccess = "success"

	// StatusError tags a failed operation result.
	StatusError = "error"
)

// GenericFailureMessage is shown to callers for storage failures and
// anything unexpected. Internal detail never leaks through it.
const GenericFailureMessage = "Something went wrong. Please try again."

const (
	logMsgOperationPanicked = "operation panicked"
	logMsgOperationFailed   = "operation failed"
	logAttrPanic            = "panic"
	logAttrError            = "error"
)

// Result is the tagged shape every mutating operation returns across the
// caller-facing boundary. Callers must not expect exceptions; Message is a
// user-displayable string, not a machine code.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SuccessResult builds a success-tagged result.
func SuccessResult(message string) Result {
	return Result{Status: StatusSuccess, Message: message}
}

// ErrorResult builds an error-tagged result.
func ErrorResult(message string) Result {
	return Result{Status: StatusError, Message: message}
}

// ResultFromError maps an operation error to the caller-facing result.
// Expected taxonomy errors surface their own message; storage and unknown
// failures map to the generic message.
func ResultFromError(err error) Result {
	if IsExpected(err) {
		return ErrorResult(err.Error())
	}

	return ErrorResult(GenericFailureMessage)
}

// Perform runs an operation and converts its outcome to a Result. It is the
// boundary guard: unexpected errors are logged with full detail and mapped
// to the generic message, and a panic inside the operation is recovered
// instead of escaping into the surrounding request handler.
func Perform(logger Logger, successMessage string, op func() error) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Error(logMsgOperationPanicked, logAttrPanic, r)
			}

			result = ErrorResult(GenericFailureMessage)
		}
	}()

	if err := op(); err != nil {
		if !IsExpected(err) && logger != nil {
			logger.Error(logMsgOperationFailed, logAttrError, err.Error())
		}

		return ResultFromError(err)
	}

	return SuccessResult(successMessage)
}
