// Package checkout implements the checkout use case: select and validate a
// copy, create the loan, and flip the copy status to loaned, with a
// compensating rollback of the loan insert when the copy flip fails.
package checkout
