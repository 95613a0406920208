package mq

import (
	"context"
	"encoding/json"
	"sort"

	apperrors "github.com/condoplex/tickets-service/pkg/errorutil"
)

// HandlerFunc processes one decoded request payload and returns the reply
// data or a fault.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Router maps message patterns to handlers. It is pure dispatch; all business
// decisions live in the handlers and the lifecycle service behind them.
type Router struct {
	handlers map[string]HandlerFunc
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]HandlerFunc)}
}

// Handle registers a handler for the given pattern. Registering the same
// pattern twice replaces the previous handler.
func (r *Router) Handle(pattern string, handler HandlerFunc) {
	r.handlers[pattern] = handler
}

// Patterns returns every registered pattern, sorted.
func (r *Router) Patterns() []string {
	patterns := make([]string, 0, len(r.handlers))
	for pattern := range r.handlers {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	return patterns
}

// Dispatch invokes the handler registered for pattern.
func (r *Router) Dispatch(ctx context.Context, pattern string, payload json.RawMessage) (any, error) {
	handler, ok := r.handlers[pattern]
	if !ok {
		return nil, apperrors.NewBadRequest("unknown message pattern", map[string]any{"pattern": pattern})
	}
	return handler(ctx, payload)
}
