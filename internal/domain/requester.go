package domain

import "time"

// Requester is the resident who opened a ticket. The record mirrors the user
// block carried in ticket.create payloads so listings can include requester
// details without calling back to the user service.
type Requester struct {
	ID        string
	Username  string
	Apartment *string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
