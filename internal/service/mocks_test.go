package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/condoplex/tickets-service/internal/domain"
	"github.com/condoplex/tickets-service/internal/events"
	"github.com/condoplex/tickets-service/internal/repository"
)

// fakeStore implements the ticket and requester repositories over in-memory
// maps, mirroring the conditional-update contract of the SQL implementation.
type fakeStore struct {
	mu         sync.Mutex
	seq        int
	base       time.Time
	tickets    map[string]*domain.Ticket
	requesters map[string]domain.Requester

	failTicketCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		base:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		tickets:    make(map[string]*domain.Ticket),
		requesters: make(map[string]domain.Requester),
	}
}

func (s *fakeStore) nextTime() time.Time {
	s.seq++
	return s.base.Add(time.Duration(s.seq) * time.Second)
}

func (s *fakeStore) Create(ctx context.Context, ticket *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTicketCreate {
		return errors.New("insert failed")
	}
	now := s.nextTime()
	ticket.ID = fmt.Sprintf("ticket-%d", s.seq)
	ticket.Available = true
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	clone := *ticket
	s.tickets[ticket.ID] = &clone
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (s *fakeStore) matches(ticket *domain.Ticket, filter repository.ListFilter) bool {
	if !ticket.Available {
		return false
	}
	if filter.Priority != nil && ticket.Priority != *filter.Priority {
		return false
	}
	if filter.Status != nil && ticket.Status != *filter.Status {
		return false
	}
	return true
}

func (s *fakeStore) matching(filter repository.ListFilter) []*domain.Ticket {
	var result []*domain.Ticket
	for _, ticket := range s.tickets {
		if s.matches(ticket, filter) {
			result = append(result, ticket)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *fakeStore) List(ctx context.Context, filter repository.ListFilter) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.matching(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	page := make([]domain.Ticket, 0, end-offset)
	for _, ticket := range all[offset:end] {
		page = append(page, *ticket)
	}
	return page, nil
}

func (s *fakeStore) Count(ctx context.Context, filter repository.ListFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.matching(filter))), nil
}

func (s *fakeStore) UpdateStatusIf(ctx context.Context, id string, expected, next domain.TicketStatus) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok || ticket.Status != expected || ticket.ResolvedAt != nil {
		return nil, pgx.ErrNoRows
	}
	ticket.Status = next
	ticket.UpdatedAt = s.nextTime()
	clone := *ticket
	return &clone, nil
}

func (s *fakeStore) UpdatePriority(ctx context.Context, id string, priority domain.TicketPriority) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok || ticket.ResolvedAt != nil || ticket.Status.IsTerminal() {
		return nil, pgx.ErrNoRows
	}
	ticket.Priority = priority
	ticket.UpdatedAt = s.nextTime()
	clone := *ticket
	return &clone, nil
}

func (s *fakeStore) Assign(ctx context.Context, id, assigneeID string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok || ticket.AssigneeID != nil || ticket.ResolvedAt != nil || ticket.Status.IsTerminal() {
		return nil, pgx.ErrNoRows
	}
	assignee := assigneeID
	ticket.AssigneeID = &assignee
	ticket.Status = domain.TicketStatusInProgress
	ticket.UpdatedAt = s.nextTime()
	clone := *ticket
	return &clone, nil
}

func (s *fakeStore) Close(ctx context.Context, id, assigneeID string, status domain.TicketStatus, response string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok || ticket.AssigneeID == nil || *ticket.AssigneeID != assigneeID || ticket.ResolvedAt != nil || ticket.Status.IsTerminal() {
		return nil, pgx.ErrNoRows
	}
	now := s.nextTime()
	resp := response
	ticket.Status = status
	ticket.Response = &resp
	ticket.ResolvedAt = &now
	ticket.UpdatedAt = now
	clone := *ticket
	return &clone, nil
}

// sortSummaryOrder matches the listing SQL: created_at descending, ties broken
// by id so equal timestamps still yield a deterministic order.
func sortSummaryOrder(tickets []*domain.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		if tickets[i].CreatedAt.Equal(tickets[j].CreatedAt) {
			return tickets[i].ID < tickets[j].ID
		}
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
}

func (s *fakeStore) summaries(tickets []*domain.Ticket) []repository.TicketSummary {
	result := make([]repository.TicketSummary, 0, len(tickets))
	for _, ticket := range tickets {
		requester := s.requesters[ticket.RequesterID]
		result = append(result, repository.TicketSummary{
			ID:        ticket.ID,
			Title:     ticket.Title,
			Priority:  ticket.Priority,
			Status:    ticket.Status,
			CreatedAt: ticket.CreatedAt,
			Username:  requester.Username,
			Apartment: requester.Apartment,
		})
	}
	return result
}

func (s *fakeStore) ListByAssignee(ctx context.Context, assigneeID string) ([]repository.TicketSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*domain.Ticket
	for _, ticket := range s.tickets {
		if ticket.AssigneeID != nil && *ticket.AssigneeID == assigneeID && !ticket.Status.IsTerminal() {
			matched = append(matched, ticket)
		}
	}
	sortSummaryOrder(matched)
	return s.summaries(matched), nil
}

func (s *fakeStore) ListByRequester(ctx context.Context, requesterID string) ([]repository.TicketSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*domain.Ticket
	for _, ticket := range s.tickets {
		if ticket.RequesterID == requesterID {
			matched = append(matched, ticket)
		}
	}
	sortSummaryOrder(matched)
	return s.summaries(matched), nil
}

func (s *fakeStore) Upsert(ctx context.Context, requester *domain.Requester) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nextTime()
	if existing, ok := s.requesters[requester.ID]; ok {
		requester.CreatedAt = existing.CreatedAt
	} else {
		requester.CreatedAt = now
	}
	requester.UpdatedAt = now
	s.requesters[requester.ID] = *requester
	return nil
}

// fakeTypeRepo serves a static ticket type table.
type fakeTypeRepo struct {
	types []domain.TicketType
}

func (r *fakeTypeRepo) List(ctx context.Context) ([]domain.TicketType, error) {
	return r.types, nil
}

// fakeFiles is an in-memory attachment store recording removals.
type fakeFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	removed []string
	failKey string
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (f *fakeFiles) Upload(ctx context.Context, key, mimeType string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKey != "" && key == f.failKey {
		return errors.New("upload failed")
	}
	f.objects[key] = append([]byte(nil), data...)
	f.types[key] = mimeType
	return nil
}

func (f *fakeFiles) Download(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (f *fakeFiles) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeFiles) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

// fakeIDs yields a deterministic identifier sequence.
type fakeIDs struct {
	mu  sync.Mutex
	seq int
}

func (g *fakeIDs) NewID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	id := fmt.Sprintf("id-%d", g.seq)
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// fakeDispatcher records published events.
type fakeDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *fakeDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *fakeDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *fakeDispatcher) typesSeen() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	seen := make([]events.EventType, 0, len(d.events))
	for _, event := range d.events {
		seen = append(seen, event.Type)
	}
	return seen
}
