package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/condoplex/tickets-service/internal/domain"
	"github.com/condoplex/tickets-service/internal/events"
	"github.com/condoplex/tickets-service/internal/files"
	"github.com/condoplex/tickets-service/internal/identifier"
	"github.com/condoplex/tickets-service/internal/repository"
	apperrors "github.com/condoplex/tickets-service/pkg/errorutil"
)

// TicketService owns the ticket lifecycle state machine. All decisions about
// whether a transition is legal live here; the repositories execute them as
// single conditional updates.
type TicketService struct {
	tickets    repository.TicketRepository
	types      repository.TicketTypeRepository
	requesters repository.RequesterRepository
	files      files.Manager
	ids        identifier.Generator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	baseFolder string
}

// TicketDependencies bundles collaborators for the lifecycle service.
type TicketDependencies struct {
	TicketRepo    repository.TicketRepository
	TypeRepo      repository.TicketTypeRepository
	RequesterRepo repository.RequesterRepository
	Files         files.Manager
	IDs           identifier.Generator
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	BaseFolder    string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		types:      deps.TypeRepo,
		requesters: deps.RequesterRepo,
		files:      deps.Files,
		ids:        deps.IDs,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		baseFolder: strings.Trim(deps.BaseFolder, "/"),
	}
}

// CreateAttachment is one decoded attachment payload.
type CreateAttachment struct {
	OriginalName string
	MimeType     string
	Data         []byte
}

// CreateTicketInput describes ticket creation.
type CreateTicketInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Status      domain.TicketStatus
	TypeID      string
	Requester   domain.Requester
	Attachments []CreateAttachment
}

// TicketPage is one page of tickets plus its metadata.
type TicketPage struct {
	Tickets  []domain.Ticket
	Page     int
	Total    int64
	LastPage int64
}

// Create uploads every attachment, then persists the ticket. Upload completion
// is a precondition of persistence: a failed upload aborts the whole creation
// and already-stored blobs are removed.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	keys := make([]string, 0, len(input.Attachments))
	for _, att := range input.Attachments {
		ext, ok := fileExtension(att.OriginalName)
		if !ok {
			return nil, apperrors.NewValidationError("attachment filename has no extension",
				map[string]any{"originalname": att.OriginalName})
		}
		keys = append(keys, s.ids.NewID("")+"."+ext)
	}

	uploaded := make([]string, 0, len(keys))
	for i, att := range input.Attachments {
		if err := s.files.Upload(ctx, s.storageKey(keys[i]), att.MimeType, att.Data); err != nil {
			s.logger.Error("attachment upload failed", zap.String("key", keys[i]), zap.Error(err))
			s.removeBlobs(ctx, uploaded)
			return nil, apperrors.NewBadRequest("an error occurred trying to create your ticket, try again", nil)
		}
		uploaded = append(uploaded, keys[i])
	}

	requester := input.Requester
	if err := s.requesters.Upsert(ctx, &requester); err != nil {
		s.logger.Error("requester upsert failed", zap.String("requester_id", requester.ID), zap.Error(err))
		s.removeBlobs(ctx, uploaded)
		return nil, apperrors.NewBadRequest("an error occurred trying to create your ticket, try again", nil)
	}

	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Images:      keys,
		Priority:    input.Priority,
		Status:      input.Status,
		TypeID:      input.TypeID,
		RequesterID: requester.ID,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityLow
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusPending
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.logger.Error("ticket insert failed", zap.Error(err))
		s.removeBlobs(ctx, uploaded)
		return nil, apperrors.NewBadRequest("an error occurred trying to create your ticket, try again", nil)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			RequesterID: ticket.RequesterID,
			TypeID:      ticket.TypeID,
			Priority:    ticket.Priority,
			Title:       ticket.Title,
			ImageCount:  len(ticket.Images),
		},
	})
	return ticket, nil
}

// FindByID returns a single ticket.
func (s *TicketService) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// FindAll returns one page of available tickets. The count and the listing
// share a single filter value so their results always agree.
func (s *TicketService) FindAll(ctx context.Context, page, limit int, priority *domain.TicketPriority, status *domain.TicketStatus) (*TicketPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	filter := repository.ListFilter{
		Priority: priority,
		Status:   status,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	total, err := s.tickets.Count(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	lastPage := total / int64(limit)
	if total%int64(limit) != 0 {
		lastPage++
	}
	return &TicketPage{
		Tickets:  tickets,
		Page:     page,
		Total:    total,
		LastPage: lastPage,
	}, nil
}

// FindTicketTypes lists the type lookup table.
func (s *TicketService) FindTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return types, nil
}

// UpdateStatus overwrites ticket status when the transition is legal. The
// write is conditional on the status the transition was validated against, so
// a concurrent change surfaces as Conflict instead of a lost update.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	current, err := s.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := eligibleForTransition(current); err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, status) {
		return nil, apperrors.NewConflict("illegal status transition", map[string]any{
			"from": current.Status,
			"to":   status,
		})
	}

	ticket, err := s.tickets.UpdateStatusIf(ctx, ticketID, current.Status, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyMissedUpdate(ctx, ticketID, "ticket status changed concurrently")
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: ticket.Status,
		},
	})
	return ticket, nil
}

// UpdatePriority overwrites ticket priority; closed tickets are immutable.
func (s *TicketService) UpdatePriority(ctx context.Context, ticketID string, priority domain.TicketPriority) (*domain.Ticket, error) {
	ticket, err := s.tickets.UpdatePriority(ctx, ticketID, priority)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyMissedUpdate(ctx, ticketID, "ticket is closed")
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketPriorityChanged,
		TicketID: ticket.ID,
		Payload:  events.TicketPriorityChangedPayload{NewPriority: ticket.Priority},
	})
	return ticket, nil
}

// AssignTicket sets the assignee on an unassigned open ticket and forces its
// status to IN_PROGRESS.
func (s *TicketService) AssignTicket(ctx context.Context, ticketID, employeeID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.Assign(ctx, ticketID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyMissedUpdate(ctx, ticketID, "ticket already assigned or closed")
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Payload:  events.TicketAssignedPayload{AssigneeID: employeeID},
	})
	return ticket, nil
}

// CloseTicket resolves an assigned open ticket with a terminal status and a
// response for the requester.
func (s *TicketService) CloseTicket(ctx context.Context, ticketID, employeeID string, status domain.TicketStatus, response string) (*domain.Ticket, error) {
	if !status.IsTerminal() {
		return nil, apperrors.NewValidationError("close status must be SOLVED or REJECTED",
			map[string]any{"status": status})
	}

	ticket, err := s.tickets.Close(ctx, ticketID, employeeID, status, response)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyMissedClose(ctx, ticketID, employeeID)
		}
		return nil, apperrors.MapError(err)
	}

	resolvedAt := time.Now()
	if ticket.ResolvedAt != nil {
		resolvedAt = *ticket.ResolvedAt
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketClosed,
		TicketID: ticket.ID,
		Payload: events.TicketClosedPayload{
			AssigneeID:  employeeID,
			FinalStatus: ticket.Status,
			ResolvedAt:  resolvedAt,
		},
	})
	return ticket, nil
}

// FindEmployeeTickets lists open tickets assigned to the employee.
func (s *TicketService) FindEmployeeTickets(ctx context.Context, employeeID string) ([]repository.TicketSummary, error) {
	summaries, err := s.tickets.ListByAssignee(ctx, employeeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return summaries, nil
}

// FindUserCases lists the tickets a resident opened, newest first.
func (s *TicketService) FindUserCases(ctx context.Context, userID string) ([]repository.TicketSummary, error) {
	summaries, err := s.tickets.ListByRequester(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return summaries, nil
}

// DownloadImage fetches attachment bytes by their derived filename.
func (s *TicketService) DownloadImage(ctx context.Context, name string) ([]byte, error) {
	data, err := s.files.Download(ctx, s.storageKey(name))
	if err != nil {
		return nil, apperrors.NewNotFound("image", map[string]any{"name": name})
	}
	return data, nil
}

// classifyMissedClose explains a close that matched no row: Conflict when the
// ticket exists but already reached a terminal state, NotFound when it is
// absent or assigned to someone else.
func (s *TicketService) classifyMissedClose(ctx context.Context, ticketID, employeeID string) error {
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	if current.IsResolved() || current.Status.IsTerminal() {
		return apperrors.NewConflict("ticket is closed", map[string]any{"ticket_id": ticketID})
	}
	return apperrors.NewNotFound("ticket", map[string]any{
		"ticket_id":   ticketID,
		"employee_id": employeeID,
	})
}

// classifyMissedUpdate distinguishes a conditional update that matched nothing
// because the ticket is absent from one whose precondition no longer holds.
func (s *TicketService) classifyMissedUpdate(ctx context.Context, ticketID, conflictMsg string) error {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	return apperrors.NewConflict(conflictMsg, map[string]any{"ticket_id": ticketID})
}

func eligibleForTransition(ticket *domain.Ticket) error {
	if ticket.IsResolved() || ticket.Status.IsTerminal() {
		return apperrors.NewConflict("ticket is closed", map[string]any{"ticket_id": ticket.ID})
	}
	return nil
}

func (s *TicketService) storageKey(name string) string {
	if s.baseFolder == "" {
		return name
	}
	return s.baseFolder + "/" + name
}

func (s *TicketService) removeBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.files.Remove(ctx, s.storageKey(key)); err != nil {
			s.logger.Warn("orphaned attachment cleanup failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = s.ids.NewID("evt")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func fileExtension(name string) (string, bool) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return "", false
	}
	return name[idx+1:], true
}
