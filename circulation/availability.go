package circulation

import (
	"strings"
)

// IsAvailable reports whether a copy is effectively lendable: its status
// flag normalizes (trimmed, lower-cased) to "available" AND none of the
// loans attached to it is still active. It is a pure predicate with no
// side effects; malformed input counts as "not available".
func IsAvailable(copy Copy) bool {
	if strings.ToLower(strings.TrimSpace(copy.Status)) != CopyStatusAvailable {
		return false
	}

	for _, loan := range copy.Loans {
		if loan.ReturnedAt == nil {
			return false
		}
	}

	return true
}

// FindFirstAvailable returns the first copy satisfying IsAvailable,
// preserving input order: first match wins, no further tie-break.
// The second return value is false when no copy is available.
func FindFirstAvailable(copies []Copy) (Copy, bool) {
	for _, copy := range copies {
		if IsAvailable(copy) {
			return copy, true
		}
	}

	return Copy{}, false
}
