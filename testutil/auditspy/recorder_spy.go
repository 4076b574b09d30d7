// Package auditspy provides a test double for the audit recorder.
package auditspy

import (
	"context"
	"sync"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/audit"
)

// RecorderSpy captures audit events instead of persisting them.
// Set Failure to make Record return that error.
type RecorderSpy struct {
	mu      sync.Mutex
	events  []audit.Event
	Failure error
}

// NewRecorderSpy creates an empty RecorderSpy.
func NewRecorderSpy() *RecorderSpy {
	return &RecorderSpy{}
}

// Record captures the event, or fails when Failure is set.
func (s *RecorderSpy) Record(_ context.Context, event audit.Event) error {
	if s.Failure != nil {
		return s.Failure
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)

	return nil
}

// Events returns a snapshot of the captured events.
func (s *RecorderSpy) Events() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]audit.Event, len(s.events))
	copy(snapshot, s.events)

	return snapshot
}
