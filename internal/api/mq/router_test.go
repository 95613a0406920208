package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	apperrors "github.com/condoplex/tickets-service/pkg/errorutil"
)

func TestRouterDispatch(t *testing.T) {
	router := NewRouter()
	router.Handle("ticket.echo", func(ctx context.Context, payload json.RawMessage) (any, error) {
		var body map[string]string
		if err := json.Unmarshal(payload, &body); err != nil {
			return nil, err
		}
		return body["value"], nil
	})

	result, err := router.Dispatch(context.Background(), "ticket.echo", json.RawMessage(`{"value":"pong"}`))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result != "pong" {
		t.Fatalf("expected pong, got %v", result)
	}
}

func TestRouterUnknownPattern(t *testing.T) {
	router := NewRouter()

	_, err := router.Dispatch(context.Background(), "ticket.nope", nil)
	if err == nil {
		t.Fatalf("expected error for unknown pattern")
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "BAD_REQUEST" {
		t.Fatalf("expected BAD_REQUEST fault, got %v", err)
	}
}

func TestRouterPatternsSorted(t *testing.T) {
	router := NewRouter()
	noop := func(ctx context.Context, payload json.RawMessage) (any, error) { return nil, nil }
	router.Handle("ticket.update-status", noop)
	router.Handle("ticket.assign", noop)
	router.Handle("ticket.create", noop)

	want := []string{"ticket.assign", "ticket.create", "ticket.update-status"}
	got := router.Patterns()
	if len(got) != len(want) {
		t.Fatalf("expected %d patterns, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %q at %d, got %q", want[i], i, got[i])
		}
	}
}
