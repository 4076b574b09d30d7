// Package storage defines the sentinel errors shared by the storage engines
// and their consumers. The engine surfaces driver failures joined onto these
// sentinels so callers can branch with errors.Is without knowing which
// database adapter is underneath.
package storage

import (
	"errors"
)

var (
	// ErrNilDatabaseConnection is returned by engine constructors when no
	// database handle was supplied.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTablePrefix is returned when an empty table prefix option is supplied.
	ErrEmptyTablePrefix = errors.New("empty table prefix supplied")

	// ErrNoMatchingRow is returned by single-row reads that matched nothing.
	ErrNoMatchingRow = errors.New("no matching row found")

	// ErrUniqueViolation is returned when an insert or update breaks a
	// uniqueness constraint. Constraints at this layer are the authoritative
	// guard for the engine's invariants; its own pre-checks are advisory.
	ErrUniqueViolation = errors.New("unique constraint violated")

	// ErrQueryFailed is returned when executing a select failed.
	ErrQueryFailed = errors.New("executing query failed")

	// ErrExecFailed is returned when executing a mutation failed.
	ErrExecFailed = errors.New("executing statement failed")

	// ErrScanFailed is returned when scanning a result row failed.
	ErrScanFailed = errors.New("scanning row failed")

	// ErrBuildQueryFailed is returned when building SQL for an operation failed.
	ErrBuildQueryFailed = errors.New("building query failed")
)
