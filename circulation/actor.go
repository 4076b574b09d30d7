package circulation

// Actor identifies who triggered an operation, for audit attribution.
// It is passed explicitly into each command instead of being resolved from
// an ambient session so the engine stays testable without a mocked session
// context.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}
