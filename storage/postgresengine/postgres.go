package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/storage"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/storage/postgresengine/internal/adapters"
)

const (
	tableBooks    = "books"
	tableCopies   = "copies"
	tableLoans    = "loans"
	tableHolds    = "holds"
	tableAuditLog = "audit_log"

	dialectPostgres     = "postgres"
	uniqueViolationCode = "23505"
	castTimestamp       = "?::timestamp with time zone"
	castJsonb           = "?::jsonb"

	logMsgBuildQueryFailed = "failed to build query"
	logMsgDBQueryFailed    = "database query execution failed"
	logMsgDBExecFailed     = "database statement execution failed"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logMsgScanRowFailed    = "failed to scan database row"
	logMsgSQLExecuted      = "executed sql for: "
	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrDurationMS      = "duration_ms"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
)

// Logger interface for SQL query logging and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Store is the PostgreSQL-backed circulation store. It leverages a database
// adapter and supports customizable logging and a table name prefix.
type Store struct {
	db          adapters.DBAdapter
	tablePrefix string
	logger      Logger
}

// Option defines a functional option for configuring Store.
type Option func(*Store) error

// WithTablePrefix prefixes all table names, for deployments sharing a
// database with other schemas.
func WithTablePrefix(prefix string) Option {
	return func(s *Store) error {
		if prefix == "" {
			return storage.ErrEmptyTablePrefix
		}

		s.tablePrefix = prefix

		return nil
	}
}

// WithLogger sets the logger for the Store.
//
// Debug level: SQL queries with execution timing (development use)
// Warn level: non-critical issues like row close failures
// Error level: failures that cause operation errors.
func WithLogger(logger Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, storage.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, storage.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, storage.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(adapter adapters.DBAdapter, options ...Option) (Store, error) {
	s := Store{db: adapter}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

func (s Store) booksTable() string {
	return s.tablePrefix + tableBooks
}

func (s Store) copiesTable() string {
	return s.tablePrefix + tableCopies
}

func (s Store) loansTable() string {
	return s.tablePrefix + tableLoans
}

func (s Store) holdsTable() string {
	return s.tablePrefix + tableHolds
}

func (s Store) auditLogTable() string {
	return s.tablePrefix + tableAuditLog
}

// executeQuery executes a select and returns the rows.
func (s Store) executeQuery(ctx context.Context, sqlQuery sqlQueryString) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	s.logQueryWithDuration(sqlQuery, time.Since(start))

	if queryErr != nil {
		s.logError(logMsgDBQueryFailed, queryErr, sqlQuery)
		return nil, errors.Join(storage.ErrQueryFailed, queryErr)
	}

	return rows, nil
}

// executeStatement executes a mutation and returns the rows affected,
// translating uniqueness violations to storage.ErrUniqueViolation.
func (s Store) executeStatement(ctx context.Context, sqlQuery sqlQueryString) (rowsAffectedInt64, error) {
	start := time.Now()
	result, execErr := s.db.Exec(ctx, sqlQuery)
	s.logQueryWithDuration(sqlQuery, time.Since(start))

	if execErr != nil {
		if isUniqueViolation(execErr) {
			return 0, errors.Join(storage.ErrUniqueViolation, execErr)
		}

		s.logError(logMsgDBExecFailed, execErr, sqlQuery)

		return 0, errors.Join(storage.ErrExecFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		return 0, errors.Join(storage.ErrExecFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// closeRows safely closes database rows and logs any errors.
func (s Store) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

func (s Store) logQueryWithDuration(sqlQuery sqlQueryString, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(
			logMsgSQLExecuted+sqlQuery,
			logAttrDurationMS, float64(duration.Nanoseconds())/1e6,
		)
	}
}

func (s Store) logError(msg string, err error, sqlQuery sqlQueryString) {
	if s.logger != nil {
		s.logger.Error(msg, logAttrError, err.Error(), logAttrQuery, sqlQuery)
	}
}

func (s Store) logBuildError(err error) {
	if s.logger != nil {
		s.logger.Error(logMsgBuildQueryFailed, logAttrError, err.Error())
	}
}

// isUniqueViolation inspects driver errors from both pgx and lib/pq for the
// PostgreSQL unique_violation code.
func isUniqueViolation(err error) bool {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == uniqueViolationCode
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}

	return false
}
