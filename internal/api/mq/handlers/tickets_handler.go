package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/condoplex/tickets-service/internal/api/dto"
	"github.com/condoplex/tickets-service/internal/api/mq"
	"github.com/condoplex/tickets-service/internal/domain"
	"github.com/condoplex/tickets-service/internal/repository"
	"github.com/condoplex/tickets-service/internal/service"
	apperrors "github.com/condoplex/tickets-service/pkg/errorutil"
)

// Message patterns served by this handler.
const (
	PatternCreate          = "ticket.create"
	PatternFindMany        = "ticket.find-many"
	PatternFindOne         = "ticket.find-one"
	PatternFindTypes       = "ticket.find-types"
	PatternUpdateStatus    = "ticket.update-status"
	PatternUpdatePriority  = "ticket.update-priority"
	PatternAssign          = "ticket.assign"
	PatternFindForEmployee = "ticket.find-for-employee"
	PatternFindCases       = "ticket.find-cases"
	PatternClose           = "ticket.close"
	PatternImage           = "ticket.image"
)

// TicketsHandler binds message patterns to lifecycle operations.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Register wires every ticket pattern into the router.
func (h *TicketsHandler) Register(router *mq.Router) {
	router.Handle(PatternCreate, h.Create)
	router.Handle(PatternFindMany, h.FindMany)
	router.Handle(PatternFindOne, h.FindOne)
	router.Handle(PatternFindTypes, h.FindTypes)
	router.Handle(PatternUpdateStatus, h.UpdateStatus)
	router.Handle(PatternUpdatePriority, h.UpdatePriority)
	router.Handle(PatternAssign, h.Assign)
	router.Handle(PatternFindForEmployee, h.FindForEmployee)
	router.Handle(PatternFindCases, h.FindCases)
	router.Handle(PatternClose, h.Close)
	router.Handle(PatternImage, h.Image)
}

// Create handles ticket.create.
func (h *TicketsHandler) Create(ctx context.Context, payload json.RawMessage) (any, error) {
	var req dto.CreateTicketRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	attachments := make([]service.CreateAttachment, 0, len(req.Images))
	for _, img := range req.Images {
		data, err := base64.StdEncoding.DecodeString(img.Base64)
		if err != nil {
			return nil, apperrors.NewValidationError("image content must be base64 encoded",
				map[string]any{"originalname": img.OriginalName})
		}
		attachments = append(attachments, service.CreateAttachment{
			OriginalName: img.OriginalName,
			MimeType:     img.MimeType,
			Data:         data,
		})
	}

	input := service.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		TypeID:      req.TypeID,
		Requester: domain.Requester{
			ID:        req.User.ID,
			Username:  req.User.Username,
			Apartment: req.User.Apartment,
			Email:     req.User.Email,
		},
		Attachments: attachments,
	}
	ticket, err := h.service.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return dto.FromTicket(ticket), nil
}

// FindMany handles ticket.find-many.
func (h *TicketsHandler) FindMany(ctx context.Context, payload json.RawMessage) (any, error) {
	var req dto.PaginationRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	page, err := h.service.FindAll(ctx, req.Page, req.Limit, req.Priority, req.Status)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TicketResponse, 0, len(page.Tickets))
	for i := range page.Tickets {
		items = append(items, dto.FromTicket(&page.Tickets[i]))
	}
	return dto.TicketPageResponse{
		Data: items,
		Meta: dto.PageMeta{
			Page:     page.Page,
			Total:    page.Total,
			LastPage: page.LastPage,
		},
	}, nil
}

// FindOne handles ticket.find-one.
func (h *TicketsHandler) FindOne(ctx context.Context, payload json.RawMessage) (any, error) {
	var req dto.FindOneRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	ticket, err := h.service.FindByID(ctx, req.TicketID)
	if err != nil {
		return nil, err
	}
	return dto.FromTicket(ticket), nil
}

// FindTypes handles ticket.find-types.
func (h *TicketsHandler) FindTypes(ctx context.Context, payload json.RawMessage) (any, error) {
	types, err := h.service.FindTicketTypes(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TicketTypeResponse, 0, len(types))
	for _, tt := range types {
		items = append(items, dto.TicketTypeResponse{ID: tt.ID, Name: tt.Name})
	}
	return items, nil
}

// UpdateStatus handles ticket.update-status.
func (h *TicketsHandler) UpdateStatus(ctx context.Context, payload json.RawMessage) (any, error) {
	var req dto.UpdateStatusRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	ticket, err := h.service.UpdateStatus(ctx, req.TicketID, req.Status)
	if err != nil {
		return nil, err
	}
	return dto.FromTicket(ticket), nil
}

// UpdatePriority handles ticket.update-priority.
func (h *TicketsHandler) UpdatePriority(ctx context.Context, payload json.RawMessage) (any, error) {
	var req dto.UpdatePriorityRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	ticket, err := h.service.UpdatePriority(ctx, req.TicketID, req.Priority)
	if err != nil {
		return nil, err
	}
	return dto.FromTicket(ticket), nil
}

// Assign handles ticket.assign.
func (h *TicketsHandler) Assign(ctx context.Context, payload json.RawMessage) (any, error) {
	var req dto.AssignTicketRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	ticket, err := h.service.AssignTicket(ctx, req.TicketID, req.UserID)
	if err != nil {
		return nil, err
	}
	return dto.FromTicket(ticket), nil
}

// FindForEmployee handles ticket.find-for-employee.
func (h *TicketsHandler) FindForEmployee(ctx context.Context, payload json.RawMessage) (any, error) {
	var req dto.FindEmployeeTicketsRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	summaries, err := h.service.FindEmployeeTickets(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return summaryResponses(summaries), nil
}

// FindCases handles ticket.find-cases.
func (h *TicketsHandler) FindCases(ctx context.Context, payload json.RawMessage) (any, error) {
	var req dto.FindCasesRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	summaries, err := h.service.FindUserCases(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return summaryResponses(summaries), nil
}

// Close handles ticket.close.
func (h *TicketsHandler) Close(ctx context.Context, payload json.RawMessage) (any, error) {
	var req dto.CloseTicketRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	ticket, err := h.service.CloseTicket(ctx, req.TicketID, req.EmployeeID, req.Status, req.Response)
	if err != nil {
		return nil, err
	}
	return dto.FromTicket(ticket), nil
}

// Image handles ticket.image.
func (h *TicketsHandler) Image(ctx context.Context, payload json.RawMessage) (any, error) {
	var req dto.DownloadImageRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	data, err := h.service.DownloadImage(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	return dto.ImageResponse{
		Name:   req.Name,
		Base64: base64.StdEncoding.EncodeToString(data),
	}, nil
}

func summaryResponses(summaries []repository.TicketSummary) []dto.TicketSummaryResponse {
	items := make([]dto.TicketSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, dto.FromSummary(summary))
	}
	return items
}

func decode(payload json.RawMessage, target any) error {
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if msgs := dto.Check(target); len(msgs) > 0 {
		return apperrors.NewValidationError("payload validation failed", map[string]any{"errors": msgs})
	}
	return nil
}
