package domain

import "time"

// TicketType categorizes tickets. Rows are seeded externally and read-only here.
type TicketType struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
