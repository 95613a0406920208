package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "PENDING"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusRejected   TicketStatus = "REJECTED"
	TicketStatusSolved     TicketStatus = "SOLVED"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusRejected, TicketStatusSolved:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// IsTerminal reports whether s permits no further transitions.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusSolved || s == TicketStatusRejected
}

// Ticket is the aggregate for resident support requests.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Images      []string
	Priority    TicketPriority
	Status      TicketStatus
	TypeID      string
	RequesterID string
	AssigneeID  *string
	Response    *string
	ResolvedAt  *time.Time
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsResolved reports whether the ticket reached its resolution.
func (t *Ticket) IsResolved() bool {
	return t.ResolvedAt != nil
}

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusPending:    {TicketStatusInProgress},
	TicketStatusInProgress: {TicketStatusSolved, TicketStatusRejected},
	TicketStatusSolved:     {},
	TicketStatusRejected:   {},
}

// CanTransition reports whether moving from current to next is a legal edge.
// Re-applying the current status is allowed so repeated updates stay idempotent.
func CanTransition(current, next TicketStatus) bool {
	if current == next {
		return !current.IsTerminal()
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
