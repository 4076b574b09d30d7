package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/audit"
)

func Test_StoreRecorder_Record_SerializesContextAndInserts(t *testing.T) {
	// arrange
	inserter := &inserterSpy{}
	recorder := audit.NewStoreRecorder(inserter)

	event := audit.Event{
		Type:       "book_checked_out",
		EntityKind: "loan",
		EntityID:   "loan-1",
		ActorID:    "staff-7",
		ActorRole:  "staff",
		Context:    map[string]any{"copy_id": "copy-1"},
	}

	// act
	err := recorder.Record(context.Background(), event)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "book_checked_out", inserter.eventType)
	assert.Equal(t, "loan", inserter.entityKind)
	assert.Equal(t, "loan-1", inserter.entityID)
	assert.Equal(t, "staff-7", inserter.actorID)
	assert.JSONEq(t, `{"copy_id":"copy-1"}`, string(inserter.contextJSON), "Context should be serialized to JSON")
}

func Test_StoreRecorder_Record_NilContextBecomesEmptyObject(t *testing.T) {
	// arrange
	inserter := &inserterSpy{}
	recorder := audit.NewStoreRecorder(inserter)

	// act
	err := recorder.Record(context.Background(), audit.Event{Type: "hold_placed"})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "{}", string(inserter.contextJSON), "A missing context still writes a valid JSON object")
}

func Test_StoreRecorder_Record_PropagatesInserterFailure(t *testing.T) {
	// arrange
	inserter := &inserterSpy{failure: errors.New("table missing")}
	recorder := audit.NewStoreRecorder(inserter)

	// act
	err := recorder.Record(context.Background(), audit.Event{Type: "hold_placed"})

	// assert
	assert.Error(t, err, "The caller decides to log and continue, not the recorder")
}

func Test_LogRecorder_Record_WritesOneInfoLine(t *testing.T) {
	// arrange
	logger := &logSpy{}
	recorder := audit.NewLogRecorder(logger)

	// act
	err := recorder.Record(context.Background(), audit.Event{
		Type:     "book_checked_in",
		EntityID: "loan-1",
	})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, logger.infoCalls, "One structured log line per event")
}

type inserterSpy struct {
	failure     error
	eventType   string
	entityKind  string
	entityID    string
	actorID     string
	actorRole   string
	contextJSON []byte
}

func (s *inserterSpy) InsertAuditEvent(
	_ context.Context,
	eventType string,
	entityKind string,
	entityID string,
	actorID string,
	actorRole string,
	contextJSON []byte,
) error {
	if s.failure != nil {
		return s.failure
	}

	s.eventType = eventType
	s.entityKind = entityKind
	s.entityID = entityID
	s.actorID = actorID
	s.actorRole = actorRole
	s.contextJSON = contextJSON

	return nil
}

type logSpy struct {
	infoCalls int
}

func (s *logSpy) Debug(string, ...any) {}

func (s *logSpy) Info(string, ...any) {
	s.infoCalls++
}

func (s *logSpy) Warn(string, ...any) {}

func (s *logSpy) Error(string, ...any) {}
