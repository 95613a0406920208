package events

import (
	"time"

	"github.com/condoplex/tickets-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketClosed          EventType = "ticket_closed"
)

// Event represents a domain event emitted after a successful transition.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	RequesterID string                `json:"requester_id"`
	TypeID      string                `json:"type_id"`
	Priority    domain.TicketPriority `json:"priority"`
	Title       string                `json:"title"`
	ImageCount  int                   `json:"image_count"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID string `json:"assignee_id"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	AssigneeID  string              `json:"assignee_id"`
	FinalStatus domain.TicketStatus `json:"final_status"`
	ResolvedAt  time.Time           `json:"resolved_at"`
}
