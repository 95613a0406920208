package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewConflict("ticket already assigned", map[string]any{"ticket_id": "t-1"})

	converted := ToDomainError(original)
	if converted.Code != "CONFLICT" || converted.Status != http.StatusConflict {
		t.Fatalf("expected CONFLICT/409, got %s/%d", converted.Code, converted.Status)
	}
	if converted.Details["ticket_id"] != "t-1" {
		t.Fatalf("expected details preserved, got %v", converted.Details)
	}
}

func TestToDomainErrorWrappedPassthrough(t *testing.T) {
	wrapped := fmt.Errorf("updating ticket: %w", NewNotFound("ticket", nil))

	converted := ToDomainError(wrapped)
	if converted.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND through wrapping, got %s", converted.Code)
	}
}

func TestToDomainErrorNoRows(t *testing.T) {
	converted := ToDomainError(fmt.Errorf("querying: %w", pgx.ErrNoRows))
	if converted.Code != "NOT_FOUND" || converted.Status != http.StatusNotFound {
		t.Fatalf("expected NOT_FOUND/404 for no rows, got %s/%d", converted.Code, converted.Status)
	}
}

func TestToDomainErrorUnknownBecomesInternal(t *testing.T) {
	cause := errors.New("connection refused")

	converted := ToDomainError(cause)
	if converted.Code != "INTERNAL_ERROR" || converted.Status != http.StatusInternalServerError {
		t.Fatalf("expected INTERNAL_ERROR/500, got %s/%d", converted.Code, converted.Status)
	}
	if converted.Message != "internal server error" {
		t.Fatalf("expected generic message, got %q", converted.Message)
	}
	if !errors.Is(converted, cause) {
		t.Fatalf("expected cause to stay reachable via Unwrap")
	}
}

func TestToDomainErrorNil(t *testing.T) {
	if ToDomainError(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
	if MapError(nil) != nil {
		t.Fatalf("expected MapError(nil) == nil")
	}
}

func TestDomainErrorMessageIncludesCause(t *testing.T) {
	err := NewInternalError(errors.New("dial tcp: timeout"))

	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError")
	}
	if domainErr.Error() != "internal server error: dial tcp: timeout" {
		t.Fatalf("unexpected message %q", domainErr.Error())
	}
}
