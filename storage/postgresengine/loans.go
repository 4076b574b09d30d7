package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/storage"
)

const (
	colLoanID           = "id"
	colLoanCopyID       = "copy_id"
	colLoanBookID       = "book_id"
	colLoanBorrowerID   = "borrower_id"
	colLoanBorrowerName = "borrower_name"
	colLoanStatus       = "status"
	colLoanBorrowedAt   = "borrowed_at"
	colLoanDueAt        = "due_at"
	colLoanReturnedAt   = "returned_at"
)

func loanColumns() []any {
	return []any{
		colLoanID, colLoanCopyID, colLoanBookID, colLoanBorrowerID,
		colLoanBorrowerName, colLoanStatus, colLoanBorrowedAt, colLoanDueAt,
		colLoanReturnedAt,
	}
}

// InsertLoan persists a new loan row. The partial uniqueness constraint on
// active loans per copy surfaces a double-loan as storage.ErrUniqueViolation.
func (s Store) InsertLoan(ctx context.Context, loan circulation.Loan) error {
	record := goqu.Record{
		colLoanID:           loan.ID.String(),
		colLoanCopyID:       loan.CopyID.String(),
		colLoanBookID:       loan.BookID.String(),
		colLoanBorrowerID:   loan.BorrowerID,
		colLoanBorrowerName: loan.BorrowerName,
		colLoanStatus:       loan.Status,
		colLoanBorrowedAt:   goqu.L(castTimestamp, loan.BorrowedAt),
		colLoanDueAt:        goqu.L(castTimestamp, loan.DueAt),
		colLoanReturnedAt:   nil,
	}

	if loan.ReturnedAt != nil {
		record[colLoanReturnedAt] = goqu.L(castTimestamp, *loan.ReturnedAt)
	}

	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Insert(s.loansTable()).
		Rows(record).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	_, err := s.executeStatement(ctx, sqlQuery)

	return err
}

// GetLoan loads a loan by id. Returns storage.ErrNoMatchingRow when absent.
func (s Store) GetLoan(ctx context.Context, loanID uuid.UUID) (circulation.Loan, error) {
	return s.getSingleLoan(ctx, goqu.Dialect(dialectPostgres).
		From(s.loansTable()).
		Select(loanColumns()...).
		Where(goqu.C(colLoanID).Eq(loanID.String())))
}

// FindActiveLoanForCopy returns the single active loan referencing a copy.
// Returns storage.ErrNoMatchingRow when the copy is not out.
func (s Store) FindActiveLoanForCopy(ctx context.Context, copyID uuid.UUID) (circulation.Loan, error) {
	return s.getSingleLoan(ctx, goqu.Dialect(dialectPostgres).
		From(s.loansTable()).
		Select(loanColumns()...).
		Where(
			goqu.C(colLoanCopyID).Eq(copyID.String()),
			goqu.C(colLoanReturnedAt).IsNull(),
		).
		Order(goqu.I(colLoanBorrowedAt).Desc()).
		Limit(1))
}

// FindLatestActiveLoanForBorrower returns the most recent active loan of a
// borrower. Returns storage.ErrNoMatchingRow when none is active.
func (s Store) FindLatestActiveLoanForBorrower(ctx context.Context, borrowerID string) (circulation.Loan, error) {
	return s.getSingleLoan(ctx, goqu.Dialect(dialectPostgres).
		From(s.loansTable()).
		Select(loanColumns()...).
		Where(
			goqu.C(colLoanBorrowerID).Eq(borrowerID),
			goqu.C(colLoanReturnedAt).IsNull(),
		).
		Order(goqu.I(colLoanBorrowedAt).Desc()).
		Limit(1))
}

func (s Store) getSingleLoan(ctx context.Context, stmt *goqu.SelectDataset) (circulation.Loan, error) {
	var empty circulation.Loan

	sqlQuery, _, buildErr := stmt.ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return empty, errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	loans, err := s.queryLoans(ctx, sqlQuery)
	if err != nil {
		return empty, err
	}

	if len(loans) == 0 {
		return empty, storage.ErrNoMatchingRow
	}

	return loans[0], nil
}

// UpdateLoan writes the business-mutable loan fields: status and returned_at.
// Returns storage.ErrNoMatchingRow when the loan is absent.
func (s Store) UpdateLoan(ctx context.Context, loan circulation.Loan) error {
	record := goqu.Record{
		colLoanStatus:     loan.Status,
		colLoanReturnedAt: nil,
	}

	if loan.ReturnedAt != nil {
		record[colLoanReturnedAt] = goqu.L(castTimestamp, *loan.ReturnedAt)
	}

	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Update(s.loansTable()).
		Set(record).
		Where(goqu.C(colLoanID).Eq(loan.ID.String())).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	rowsAffected, err := s.executeStatement(ctx, sqlQuery)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return storage.ErrNoMatchingRow
	}

	return nil
}

// DeleteLoan removes a loan row, used by the checkout compensation.
// Returns storage.ErrNoMatchingRow when the loan is absent.
func (s Store) DeleteLoan(ctx context.Context, loanID uuid.UUID) error {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Delete(s.loansTable()).
		Where(goqu.C(colLoanID).Eq(loanID.String())).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	rowsAffected, err := s.executeStatement(ctx, sqlQuery)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return storage.ErrNoMatchingRow
	}

	return nil
}

// CountActiveLoans returns the number of loans with no return date.
func (s Store) CountActiveLoans(ctx context.Context) (int, error) {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		From(s.loansTable()).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C(colLoanReturnedAt).IsNull()).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return 0, errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	return s.queryCount(ctx, sqlQuery)
}

// CountOverdueLoans returns the number of active loans past their due date.
func (s Store) CountOverdueLoans(ctx context.Context, now time.Time) (int, error) {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		From(s.loansTable()).
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.C(colLoanReturnedAt).IsNull(),
			goqu.C(colLoanDueAt).Lt(goqu.L(castTimestamp, now)),
		).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return 0, errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	return s.queryCount(ctx, sqlQuery)
}

func (s Store) queryLoans(ctx context.Context, sqlQuery sqlQueryString) ([]circulation.Loan, error) {
	rows, err := s.executeQuery(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer s.closeRows(rows)

	loans := make([]circulation.Loan, 0)

	for rows.Next() {
		var (
			loan       circulation.Loan
			returnedAt sql.NullTime
		)

		scanErr := rows.Scan(
			&loan.ID, &loan.CopyID, &loan.BookID, &loan.BorrowerID,
			&loan.BorrowerName, &loan.Status, &loan.BorrowedAt, &loan.DueAt,
			&returnedAt,
		)
		if scanErr != nil {
			if s.logger != nil {
				s.logger.Error(logMsgScanRowFailed, logAttrError, scanErr.Error())
			}

			return nil, errors.Join(storage.ErrScanFailed, scanErr)
		}

		if returnedAt.Valid {
			at := returnedAt.Time
			loan.ReturnedAt = &at
		}

		loans = append(loans, loan)
	}

	return loans, nil
}
