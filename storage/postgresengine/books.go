package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/storage"
)

const (
	colBookID             = "id"
	colBookTitle          = "title"
	colBookAuthor         = "author"
	colBookISBN           = "isbn"
	colBookClassification = "classification"
	colBookLocation       = "location"
	colBookTags           = "tags"
	colBookLastTxAt       = "last_transaction_at"
)

// InsertBook persists a new book row.
func (s Store) InsertBook(ctx context.Context, book circulation.Book) error {
	tagsJSON, marshalErr := jsoniter.ConfigFastest.Marshal(book.Tags)
	if marshalErr != nil {
		return errors.Join(storage.ErrBuildQueryFailed, marshalErr)
	}

	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Insert(s.booksTable()).
		Rows(goqu.Record{
			colBookID:             book.ID.String(),
			colBookTitle:          book.Title,
			colBookAuthor:         book.Author,
			colBookISBN:           book.ISBN,
			colBookClassification: book.Classification,
			colBookLocation:       book.Location,
			colBookTags:           goqu.L(castJsonb, string(tagsJSON)),
		}).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	_, err := s.executeStatement(ctx, sqlQuery)

	return err
}

// GetBook loads a book by id. Returns storage.ErrNoMatchingRow when absent.
func (s Store) GetBook(ctx context.Context, bookID uuid.UUID) (circulation.Book, error) {
	var empty circulation.Book

	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		From(s.booksTable()).
		Select(
			colBookID, colBookTitle, colBookAuthor, colBookISBN,
			colBookClassification, colBookLocation, colBookTags, colBookLastTxAt,
		).
		Where(goqu.C(colBookID).Eq(bookID.String())).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return empty, errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	rows, err := s.executeQuery(ctx, sqlQuery)
	if err != nil {
		return empty, err
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return empty, storage.ErrNoMatchingRow
	}

	return s.scanBook(rows)
}

func (s Store) scanBook(rows interface{ Scan(dest ...any) error }) (circulation.Book, error) {
	var (
		book     circulation.Book
		tagsJSON []byte
		lastTxAt sql.NullTime
	)

	scanErr := rows.Scan(
		&book.ID, &book.Title, &book.Author, &book.ISBN,
		&book.Classification, &book.Location, &tagsJSON, &lastTxAt,
	)
	if scanErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgScanRowFailed, logAttrError, scanErr.Error())
		}

		return circulation.Book{}, errors.Join(storage.ErrScanFailed, scanErr)
	}

	if len(tagsJSON) > 0 {
		if unmarshalErr := jsoniter.ConfigFastest.Unmarshal(tagsJSON, &book.Tags); unmarshalErr != nil {
			return circulation.Book{}, errors.Join(storage.ErrScanFailed, unmarshalErr)
		}
	}

	if lastTxAt.Valid {
		at := lastTxAt.Time
		book.LastTransactionAt = &at
	}

	return book, nil
}

// UpdateBookLastTransactionAt propagates the timestamp of the latest
// circulation transaction onto the book row.
func (s Store) UpdateBookLastTransactionAt(ctx context.Context, bookID uuid.UUID, at time.Time) error {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Update(s.booksTable()).
		Set(goqu.Record{colBookLastTxAt: goqu.L(castTimestamp, at)}).
		Where(goqu.C(colBookID).Eq(bookID.String())).
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

// DeleteBook removes a book row. Returns storage.ErrNoMatchingRow when absent.
func (s Store) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Delete(s.booksTable()).
		Where(goqu.C(colBookID).Eq(bookID.String())).
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

// CountBooks returns the number of books in the catalog.
func (s Store) CountBooks(ctx context.Context) (int, error) {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		From(s.booksTable()).
		Select(goqu.COUNT(goqu.Star())).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return 0, errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	return s.queryCount(ctx, sqlQuery)
}

// queryCount executes a single-value count query.
func (s Store) queryCount(ctx context.Context, sqlQuery sqlQueryString) (int, error) {
	rows, err := s.executeQuery(ctx, sqlQuery)
	if err != nil {
		return 0, err
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return 0, storage.ErrNoMatchingRow
	}

	var count int
	if scanErr := rows.Scan(&count); scanErr != nil {
		return 0, errors.Join(storage.ErrScanFailed, scanErr)
	}

	return count, nil
}
