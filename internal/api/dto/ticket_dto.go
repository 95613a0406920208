package dto

import (
	"time"

	"github.com/condoplex/tickets-service/internal/domain"
	"github.com/condoplex/tickets-service/internal/repository"
)

// TicketImage is an attachment payload carried inside ticket.create.
type TicketImage struct {
	OriginalName string `json:"originalname" validate:"required"`
	MimeType     string `json:"mimetype" validate:"required"`
	Base64       string `json:"base64" validate:"required,base64"`
}

// TicketUser is the requesting-user block of ticket.create.
type TicketUser struct {
	ID        string  `json:"id" validate:"required,uuid"`
	Username  string  `json:"username" validate:"required"`
	Apartment *string `json:"apartment,omitempty" validate:"omitempty"`
	Email     string  `json:"email" validate:"required,email"`
}

// CreateTicketRequest is the ticket.create payload.
type CreateTicketRequest struct {
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Images      []TicketImage         `json:"images" validate:"omitempty,dive"`
	Priority    domain.TicketPriority `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status      domain.TicketStatus   `json:"status,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS REJECTED SOLVED"`
	TypeID      string                `json:"typeId" validate:"required,uuid"`
	User        TicketUser            `json:"user" validate:"required"`
}

// PaginationRequest is the ticket.find-many payload.
type PaginationRequest struct {
	Page     int                    `json:"page,omitempty" validate:"omitempty,min=1"`
	Limit    int                    `json:"limit,omitempty" validate:"omitempty,min=1"`
	Priority *domain.TicketPriority `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status   *domain.TicketStatus   `json:"status,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS REJECTED SOLVED"`
}

// FindOneRequest is the ticket.find-one payload.
type FindOneRequest struct {
	TicketID string `json:"ticketId" validate:"required,uuid"`
}

// UpdateStatusRequest is the ticket.update-status payload.
type UpdateStatusRequest struct {
	TicketID string              `json:"ticketId" validate:"required,uuid"`
	Status   domain.TicketStatus `json:"status" validate:"required,oneof=PENDING IN_PROGRESS REJECTED SOLVED"`
}

// UpdatePriorityRequest is the ticket.update-priority payload.
type UpdatePriorityRequest struct {
	TicketID string                `json:"ticketId" validate:"required,uuid"`
	Priority domain.TicketPriority `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH"`
}

// AssignTicketRequest is the ticket.assign payload.
type AssignTicketRequest struct {
	TicketID string `json:"ticketId" validate:"required,uuid"`
	UserID   string `json:"userId" validate:"required,uuid"`
}

// FindEmployeeTicketsRequest is the ticket.find-for-employee payload.
type FindEmployeeTicketsRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// FindCasesRequest is the ticket.find-cases payload.
type FindCasesRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// CloseTicketRequest is the ticket.close payload.
type CloseTicketRequest struct {
	TicketID   string              `json:"ticketId" validate:"required,uuid"`
	EmployeeID string              `json:"employeeId" validate:"required,uuid"`
	Status     domain.TicketStatus `json:"status" validate:"required,oneof=SOLVED REJECTED"`
	Response   string              `json:"response" validate:"required"`
}

// DownloadImageRequest is the ticket.image payload.
type DownloadImageRequest struct {
	Name string `json:"name" validate:"required"`
}

// TicketResponse is the full ticket representation returned to callers.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Images      []string              `json:"images"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	TypeID      string                `json:"typeId"`
	RequesterID string                `json:"userId"`
	AssigneeID  *string               `json:"assigneeId,omitempty"`
	Response    *string               `json:"response,omitempty"`
	ResolvedAt  *time.Time            `json:"resolvedAt,omitempty"`
	Available   bool                  `json:"available"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// TicketSummaryResponse is the projection used by employee/case listings.
type TicketSummaryResponse struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Priority  domain.TicketPriority `json:"priority"`
	Status    domain.TicketStatus   `json:"status"`
	CreatedAt time.Time             `json:"createdAt"`
	Username  string                `json:"username"`
	Apartment *string               `json:"apartment,omitempty"`
}

// PageMeta carries pagination metadata for ticket.find-many.
type PageMeta struct {
	Page     int   `json:"page"`
	Total    int64 `json:"total"`
	LastPage int64 `json:"lastPage"`
}

// TicketPageResponse bundles a page of tickets with its metadata.
type TicketPageResponse struct {
	Data []TicketResponse `json:"data"`
	Meta PageMeta         `json:"meta"`
}

// TicketTypeResponse mirrors a ticket type row.
type TicketTypeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ImageResponse carries downloaded attachment bytes, base64 encoded.
type ImageResponse struct {
	Name   string `json:"name"`
	Base64 string `json:"base64"`
}

// FromTicket maps a domain ticket to its response shape.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	images := ticket.Images
	if images == nil {
		images = []string{}
	}
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Images:      images,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		TypeID:      ticket.TypeID,
		RequesterID: ticket.RequesterID,
		AssigneeID:  ticket.AssigneeID,
		Response:    ticket.Response,
		ResolvedAt:  ticket.ResolvedAt,
		Available:   ticket.Available,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

// FromSummary maps a repository summary row to its response shape.
func FromSummary(summary repository.TicketSummary) TicketSummaryResponse {
	return TicketSummaryResponse{
		ID:        summary.ID,
		Title:     summary.Title,
		Priority:  summary.Priority,
		Status:    summary.Status,
		CreatedAt: summary.CreatedAt,
		Username:  summary.Username,
		Apartment: summary.Apartment,
	}
}
