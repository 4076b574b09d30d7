// Package adapters provides database adapter implementations for the
// PostgreSQL circulation store.
//
// The adapter pattern supports multiple PostgreSQL database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent
// functionality through a common DBAdapter interface, allowing the store to
// work with any supported connection type.
package adapters
