package postgresengine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/storage"
)

const (
	colHoldID        = "id"
	colHoldPatronID  = "patron_id"
	colHoldBookID    = "book_id"
	colHoldStatus    = "status"
	colHoldPlacedAt  = "placed_at"
	colHoldReadyAt   = "ready_at"
	colHoldExpiresAt = "expires_at"
)

func holdColumns() []any {
	return []any{
		colHoldID, colHoldPatronID, colHoldBookID, colHoldStatus,
		colHoldPlacedAt, colHoldReadyAt, colHoldExpiresAt,
	}
}

// InsertHold persists a new hold row. The partial uniqueness constraint on
// active holds per (patron, book) surfaces a duplicate as
// storage.ErrUniqueViolation.
func (s Store) InsertHold(ctx context.Context, hold circulation.Hold) error {
	record := goqu.Record{
		colHoldID:        hold.ID.String(),
		colHoldPatronID:  hold.PatronID,
		colHoldBookID:    hold.BookID.String(),
		colHoldStatus:    hold.Status,
		colHoldPlacedAt:  goqu.L(castTimestamp, hold.PlacedAt),
		colHoldReadyAt:   nil,
		colHoldExpiresAt: nil,
	}

	if hold.ReadyAt != nil {
		record[colHoldReadyAt] = goqu.L(castTimestamp, *hold.ReadyAt)
	}

	if hold.ExpiresAt != nil {
		record[colHoldExpiresAt] = goqu.L(castTimestamp, *hold.ExpiresAt)
	}

	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Insert(s.holdsTable()).
		Rows(record).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	_, err := s.executeStatement(ctx, sqlQuery)

	return err
}

// GetHold loads a hold by id. Returns storage.ErrNoMatchingRow when absent.
func (s Store) GetHold(ctx context.Context, holdID uuid.UUID) (circulation.Hold, error) {
	return s.getSingleHold(ctx, goqu.Dialect(dialectPostgres).
		From(s.holdsTable()).
		Select(holdColumns()...).
		Where(goqu.C(colHoldID).Eq(holdID.String())))
}

// FindActiveHold returns the QUEUED or READY hold of a patron on a book.
// Returns storage.ErrNoMatchingRow when none is active.
func (s Store) FindActiveHold(ctx context.Context, patronID string, bookID uuid.UUID) (circulation.Hold, error) {
	return s.getSingleHold(ctx, goqu.Dialect(dialectPostgres).
		From(s.holdsTable()).
		Select(holdColumns()...).
		Where(
			goqu.C(colHoldPatronID).Eq(patronID),
			goqu.C(colHoldBookID).Eq(bookID.String()),
			goqu.C(colHoldStatus).In(circulation.HoldStatusQueued, circulation.HoldStatusReady),
		).
		Limit(1))
}

func (s Store) getSingleHold(ctx context.Context, stmt *goqu.SelectDataset) (circulation.Hold, error) {
	var empty circulation.Hold

	sqlQuery, _, buildErr := stmt.ToSQL()
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

	var (
		hold      circulation.Hold
		readyAt   sql.NullTime
		expiresAt sql.NullTime
	)

	scanErr := rows.Scan(
		&hold.ID, &hold.PatronID, &hold.BookID, &hold.Status,
		&hold.PlacedAt, &readyAt, &expiresAt,
	)
	if scanErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgScanRowFailed, logAttrError, scanErr.Error())
		}

		return empty, errors.Join(storage.ErrScanFailed, scanErr)
	}

	if readyAt.Valid {
		at := readyAt.Time
		hold.ReadyAt = &at
	}

	if expiresAt.Valid {
		at := expiresAt.Time
		hold.ExpiresAt = &at
	}

	return hold, nil
}

// UpdateHoldStatus transitions a hold to the given status.
// Returns storage.ErrNoMatchingRow when the hold is absent.
func (s Store) UpdateHoldStatus(ctx context.Context, holdID uuid.UUID, status string) error {
	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Update(s.holdsTable()).
		Set(goqu.Record{colHoldStatus: status}).
		Where(goqu.C(colHoldID).Eq(holdID.String())).
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
