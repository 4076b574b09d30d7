// Package placehold implements placing a hold on a book. The engine's
// duplicate lookup is an advisory pre-check; the partial uniqueness
// constraint on active holds at the storage layer is the authoritative
// guard, so a uniqueness violation on the insert maps to the same
// duplicate-hold failure.
package placehold
