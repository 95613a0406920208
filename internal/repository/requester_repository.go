package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/condoplex/tickets-service/internal/domain"
)

// RequesterRepository persists the requesting-user snapshot carried in
// ticket.create payloads.
type RequesterRepository interface {
	Upsert(ctx context.Context, requester *domain.Requester) error
}

type requesterRepository struct {
	pool *pgxpool.Pool
}

// NewRequesterRepository instantiates repository.
func NewRequesterRepository(pool *pgxpool.Pool) RequesterRepository {
	return &requesterRepository{pool: pool}
}

func (r *requesterRepository) Upsert(ctx context.Context, requester *domain.Requester) error {
	const query = `
        INSERT INTO requesters (id, username, apartment, email)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (id) DO UPDATE
            SET username=EXCLUDED.username, apartment=EXCLUDED.apartment,
                email=EXCLUDED.email, updated_at=NOW()
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		requester.ID,
		requester.Username,
		requester.Apartment,
		requester.Email,
	).Scan(&requester.CreatedAt, &requester.UpdatedAt)
}
