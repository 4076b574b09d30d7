// Package cancelhold implements canceling a hold. Only the owning patron
// may cancel, and only from the QUEUED or READY states; CANCELED, FULFILLED
// and EXPIRED are terminal.
package cancelhold
