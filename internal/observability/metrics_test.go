package observability

import (
	"testing"
	"time"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordHandled("ticket.create", 5*time.Millisecond)
	m.RecordHandled("ticket.create", 7*time.Millisecond)
	m.RecordHandled("ticket.find-one", time.Millisecond)
	m.RecordError("ticket.create", "VALIDATION_FAILED")

	if got := m.HandledCount("ticket.create"); got != 2 {
		t.Fatalf("expected 2 handled, got %d", got)
	}
	if got := m.HandledCount("ticket.find-one"); got != 1 {
		t.Fatalf("expected 1 handled, got %d", got)
	}
	if got := m.ErrorCount("ticket.create", "VALIDATION_FAILED"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := m.ErrorCount("ticket.create", "NOT_FOUND"); got != 0 {
		t.Fatalf("expected 0 errors for unseen code, got %d", got)
	}
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics

	m.RecordHandled("ticket.create", time.Millisecond)
	m.RecordError("ticket.create", "CONFLICT")
	if m.HandledCount("ticket.create") != 0 || m.ErrorCount("ticket.create", "CONFLICT") != 0 {
		t.Fatalf("nil metrics should be inert")
	}
}
