// Package circulation contains the core domain of the circulation and holds
// engine: the Book/Copy/Loan/Hold entities, the pure copy availability
// resolver, the error taxonomy shared by all operations, and the tagged
// result shape returned across the caller-facing boundary.
//
// The stored Copy status flag is treated as a cache: the availability
// resolver, which reconciles the flag with the loan records attached to the
// copy, is the ground truth everywhere availability is checked.
package circulation
