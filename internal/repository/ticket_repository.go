package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/condoplex/tickets-service/internal/domain"
)

// ListFilter captures paginated listing parameters. The same value feeds both
// the COUNT and the SELECT so totals always agree with the returned page.
type ListFilter struct {
	Priority *domain.TicketPriority
	Status   *domain.TicketStatus
	Limit    int
	Offset   int
}

// TicketSummary is the projection served by employee and resident listings.
type TicketSummary struct {
	ID        string
	Title     string
	Priority  domain.TicketPriority
	Status    domain.TicketStatus
	CreatedAt time.Time
	Username  string
	Apartment *string
}

// TicketRepository encapsulates ticket persistence. Transition methods issue a
// single conditional UPDATE whose WHERE clause encodes the precondition;
// pgx.ErrNoRows signals that no eligible row matched.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Ticket, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	UpdateStatusIf(ctx context.Context, id string, expected, next domain.TicketStatus) (*domain.Ticket, error)
	UpdatePriority(ctx context.Context, id string, priority domain.TicketPriority) (*domain.Ticket, error)
	Assign(ctx context.Context, id, assigneeID string) (*domain.Ticket, error)
	Close(ctx context.Context, id, assigneeID string, status domain.TicketStatus, response string) (*domain.Ticket, error)
	ListByAssignee(ctx context.Context, assigneeID string) ([]TicketSummary, error)
	ListByRequester(ctx context.Context, requesterID string) ([]TicketSummary, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, title, description, images, priority, status, type_id, requester_id,
               assignee_user_id, response, resolved_at, available, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, images, priority, status, type_id, requester_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, available, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Images,
		ticket.Priority,
		ticket.Status,
		ticket.TypeID,
		ticket.RequesterID,
	).Scan(&ticket.ID, &ticket.Available, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// UpdateStatusIf overwrites status only while the row still holds the status
// the caller validated the transition against, collapsing check-then-update
// into one atomic statement.
func (r *ticketRepository) UpdateStatusIf(ctx context.Context, id string, expected, next domain.TicketStatus) (*domain.Ticket, error) {
	query := `
        UPDATE tickets SET status=$3, updated_at=NOW()
        WHERE id=$1 AND status=$2 AND resolved_at IS NULL
        RETURNING ` + ticketColumns
	return r.fetchSingle(ctx, query, id, expected, next)
}

func (r *ticketRepository) UpdatePriority(ctx context.Context, id string, priority domain.TicketPriority) (*domain.Ticket, error) {
	query := `
        UPDATE tickets SET priority=$2, updated_at=NOW()
        WHERE id=$1 AND resolved_at IS NULL AND status NOT IN ('SOLVED','REJECTED')
        RETURNING ` + ticketColumns
	return r.fetchSingle(ctx, query, id, priority)
}

func (r *ticketRepository) Assign(ctx context.Context, id, assigneeID string) (*domain.Ticket, error) {
	query := `
        UPDATE tickets SET assignee_user_id=$2, status='IN_PROGRESS', updated_at=NOW()
        WHERE id=$1 AND assignee_user_id IS NULL AND resolved_at IS NULL AND status NOT IN ('SOLVED','REJECTED')
        RETURNING ` + ticketColumns
	return r.fetchSingle(ctx, query, id, assigneeID)
}

func (r *ticketRepository) Close(ctx context.Context, id, assigneeID string, status domain.TicketStatus, response string) (*domain.Ticket, error) {
	query := `
        UPDATE tickets SET status=$3, response=$4, resolved_at=NOW(), updated_at=NOW()
        WHERE id=$1 AND assignee_user_id=$2 AND resolved_at IS NULL AND status NOT IN ('SOLVED','REJECTED')
        RETURNING ` + ticketColumns
	return r.fetchSingle(ctx, query, id, assigneeID, status, response)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Images,
		&ticket.Priority,
		&ticket.Status,
		&ticket.TypeID,
		&ticket.RequesterID,
		&ticket.AssigneeID,
		&ticket.Response,
		&ticket.ResolvedAt,
		&ticket.Available,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func filterClauses(filter ListFilter) (string, []any) {
	clauses := []string{"available = TRUE"}
	args := []any{}

	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func (r *ticketRepository) List(ctx context.Context, filter ListFilter) ([]domain.Ticket, error) {
	where, args := filterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	where, args := filterClauses(filter)
	query := `SELECT COUNT(*) FROM tickets WHERE ` + where

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

const summaryColumns = `t.id, t.title, t.priority, t.status, t.created_at, r.username, r.apartment`

func (r *ticketRepository) ListByAssignee(ctx context.Context, assigneeID string) ([]TicketSummary, error) {
	query := `
        SELECT ` + summaryColumns + `
        FROM tickets t
        JOIN requesters r ON r.id = t.requester_id
        WHERE t.assignee_user_id=$1 AND t.status NOT IN ('SOLVED','REJECTED')
        ORDER BY t.created_at DESC, t.id`
	return r.querySummaries(ctx, query, assigneeID)
}

func (r *ticketRepository) ListByRequester(ctx context.Context, requesterID string) ([]TicketSummary, error) {
	query := `
        SELECT ` + summaryColumns + `
        FROM tickets t
        JOIN requesters r ON r.id = t.requester_id
        WHERE t.requester_id=$1
        ORDER BY t.created_at DESC, t.id`
	return r.querySummaries(ctx, query, requesterID)
}

func (r *ticketRepository) querySummaries(ctx context.Context, query string, arg any) ([]TicketSummary, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TicketSummary
	for rows.Next() {
		var summary TicketSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Title,
			&summary.Priority,
			&summary.Status,
			&summary.CreatedAt,
			&summary.Username,
			&summary.Apartment,
		); err != nil {
			return nil, err
		}
		result = append(result, summary)
	}
	return result, rows.Err()
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Images,
			&ticket.Priority,
			&ticket.Status,
			&ticket.TypeID,
			&ticket.RequesterID,
			&ticket.AssigneeID,
			&ticket.Response,
			&ticket.ResolvedAt,
			&ticket.Available,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
