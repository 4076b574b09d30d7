// Package removebook implements deleting a book from the catalog. A book
// owns its copies, so the routine deletes the copies first and refuses
// entirely while any copy is still out on an active loan. The ordering is
// enforced here, not by a database cascade.
package removebook
