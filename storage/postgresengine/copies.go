package postgresengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/storage"
)

const (
	colCopyID      = "id"
	colCopyBookID  = "book_id"
	colCopyBarcode = "barcode"
	colCopyStatus  = "status"
)

// InsertCopy persists a new copy row. A duplicate barcode surfaces as
// storage.ErrUniqueViolation.
func (s Store) InsertCopy(ctx context.Context, copy circulation.Copy) error {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Insert(s.copiesTable()).
		Rows(goqu.Record{
			colCopyID:      copy.ID.String(),
			colCopyBookID:  copy.BookID.String(),
			colCopyBarcode: copy.Barcode,
			colCopyStatus:  copy.Status,
		}).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	_, err := s.executeStatement(ctx, sqlQuery)

	return err
}

// GetCopy loads a copy by id with its active loans attached.
// Returns storage.ErrNoMatchingRow when absent.
func (s Store) GetCopy(ctx context.Context, copyID uuid.UUID) (circulation.Copy, error) {
	return s.getCopyWhere(ctx, goqu.C(colCopyID).Eq(copyID.String()))
}

// GetCopyByBarcode loads a copy by its unique barcode with its active loans
// attached. Returns storage.ErrNoMatchingRow when absent.
func (s Store) GetCopyByBarcode(ctx context.Context, barcode string) (circulation.Copy, error) {
	return s.getCopyWhere(ctx, goqu.C(colCopyBarcode).Eq(barcode))
}

func (s Store) getCopyWhere(ctx context.Context, condition goqu.Expression) (circulation.Copy, error) {
	var empty circulation.Copy

	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		From(s.copiesTable()).
		Select(colCopyID, colCopyBookID, colCopyBarcode, colCopyStatus).
		Where(condition).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return empty, errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	copies, err := s.queryCopies(ctx, sqlQuery)
	if err != nil {
		return empty, err
	}

	if len(copies) == 0 {
		return empty, storage.ErrNoMatchingRow
	}

	withLoans, err := s.attachActiveLoans(ctx, copies[:1])
	if err != nil {
		return empty, err
	}

	return withLoans[0], nil
}

// ListCopiesForBook loads all copies of a book, in insertion order, each
// with its active loans attached.
func (s Store) ListCopiesForBook(ctx context.Context, bookID uuid.UUID) ([]circulation.Copy, error) {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		From(s.copiesTable()).
		Select(colCopyID, colCopyBookID, colCopyBarcode, colCopyStatus).
		Where(goqu.C(colCopyBookID).Eq(bookID.String())).
		Order(goqu.I(colCopyBarcode).Asc()).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return nil, errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	copies, err := s.queryCopies(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}

	return s.attachActiveLoans(ctx, copies)
}

// ListAllCopies loads every copy with its active loans attached, for the
// dashboard availability computation.
func (s Store) ListAllCopies(ctx context.Context) ([]circulation.Copy, error) {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		From(s.copiesTable()).
		Select(colCopyID, colCopyBookID, colCopyBarcode, colCopyStatus).
		Order(goqu.I(colCopyBarcode).Asc()).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return nil, errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	copies, err := s.queryCopies(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}

	return s.attachActiveLoans(ctx, copies)
}

// UpdateCopyStatus flips the stored status flag of a copy.
// Returns storage.ErrNoMatchingRow when the copy is absent.
func (s Store) UpdateCopyStatus(ctx context.Context, copyID uuid.UUID, status string) error {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Update(s.copiesTable()).
		Set(goqu.Record{colCopyStatus: status}).
		Where(goqu.C(colCopyID).Eq(copyID.String())).
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

// DeleteCopiesForBook removes all copies of a book. Deleting zero rows is
// not an error: the operation is idempotent.
func (s Store) DeleteCopiesForBook(ctx context.Context, bookID uuid.UUID) error {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Delete(s.copiesTable()).
		Where(goqu.C(colCopyBookID).Eq(bookID.String())).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	_, err := s.executeStatement(ctx, sqlQuery)

	return err
}

func (s Store) queryCopies(ctx context.Context, sqlQuery sqlQueryString) ([]circulation.Copy, error) {
	rows, err := s.executeQuery(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer s.closeRows(rows)

	copies := make([]circulation.Copy, 0)

	for rows.Next() {
		var copy circulation.Copy

		scanErr := rows.Scan(&copy.ID, &copy.BookID, &copy.Barcode, &copy.Status)
		if scanErr != nil {
			if s.logger != nil {
				s.logger.Error(logMsgScanRowFailed, logAttrError, scanErr.Error())
			}

			return nil, errors.Join(storage.ErrScanFailed, scanErr)
		}

		copies = append(copies, copy)
	}

	return copies, nil
}

// attachActiveLoans loads the active loans referencing the given copies and
// attaches them, so the availability resolver can reconcile the status flag
// with the loan-derived truth.
func (s Store) attachActiveLoans(ctx context.Context, copies []circulation.Copy) ([]circulation.Copy, error) {
	if len(copies) == 0 {
		return copies, nil
	}

	copyIDs := make([]string, 0, len(copies))
	for _, copy := range copies {
		copyIDs = append(copyIDs, copy.ID.String())
	}

	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		From(s.loansTable()).
		Select(loanColumns()...).
		Where(
			goqu.C(colLoanCopyID).In(copyIDs),
			goqu.C(colLoanReturnedAt).IsNull(),
		).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return nil, errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	loans, err := s.queryLoans(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}

	loansByCopy := make(map[uuid.UUID][]circulation.Loan, len(loans))
	for _, loan := range loans {
		loansByCopy[loan.CopyID] = append(loansByCopy[loan.CopyID], loan)
	}

	for i := range copies {
		copies[i].Loans = loansByCopy[copies[i].ID]
	}

	return copies, nil
}
