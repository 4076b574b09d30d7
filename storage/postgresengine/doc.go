// Package postgresengine provides the PostgreSQL-backed circulation store.
//
// The store persists the four circulation relations (books, copies, loans,
// holds) plus the audit log, building all SQL with goqu and executing it
// through a database adapter that supports pgx.Pool, sql.DB, and sqlx.DB
// connections.
//
// The migration that creates the schema must include the two partial
// uniqueness constraints the engine relies on as the authoritative guard
// against races its advisory pre-checks cannot close:
//
//	CREATE UNIQUE INDEX one_active_loan_per_copy
//	    ON loans (copy_id) WHERE returned_at IS NULL;
//	CREATE UNIQUE INDEX one_active_hold_per_patron_book
//	    ON holds (patron_id, book_id) WHERE status IN ('QUEUED', 'READY');
//
// Violations of either constraint surface as storage.ErrUniqueViolation.
package postgresengine
