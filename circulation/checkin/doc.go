// Package checkin implements the check-in use case: locate the active loan
// by id, barcode, or borrower identifier, close it, and flip the copy back
// to available, with a compensating revert of the loan update when the copy
// flip fails.
package checkin
