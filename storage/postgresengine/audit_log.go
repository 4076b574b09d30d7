package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/storage"
)

const (
	colAuditID         = "id"
	colAuditEventType  = "event_type"
	colAuditEntityKind = "entity_kind"
	colAuditEntityID   = "entity_id"
	colAuditActorID    = "actor_id"
	colAuditActorRole  = "actor_role"
	colAuditContext    = "context"
	colAuditOccurredAt = "occurred_at"
)

// InsertAuditEvent appends a row to the audit log. It implements
// audit.EventInserter; callers treat failures as best-effort by contract.
func (s Store) InsertAuditEvent(
	ctx context.Context,
	eventType string,
	entityKind string,
	entityID string,
	actorID string,
	actorRole string,
	contextJSON []byte,
) error {

	sqlQuery, _, buildErr := goqu.Dialect(dialectPostgres).
		Insert(s.auditLogTable()).
		Rows(goqu.Record{
			colAuditID:         uuid.New().String(),
			colAuditEventType:  eventType,
			colAuditEntityKind: entityKind,
			colAuditEntityID:   entityID,
			colAuditActorID:    actorID,
			colAuditActorRole:  actorRole,
			colAuditContext:    goqu.L(castJsonb, string(contextJSON)),
			colAuditOccurredAt: goqu.L(castTimestamp, time.Now()),
		}).
		ToSQL()
	if buildErr != nil {
		s.logBuildError(buildErr)
		return errors.Join(storage.ErrBuildQueryFailed, buildErr)
	}

	_, err := s.executeStatement(ctx, sqlQuery)

	return err
}
