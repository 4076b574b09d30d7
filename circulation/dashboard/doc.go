// Package dashboard implements the read-only summary of the circulation
// state: total and available titles plus active and overdue loan counts.
// Available titles are computed by running the availability resolver over
// the full copy set and collecting distinct book ids, not by counting
// available copies.
package dashboard
