package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-intake/internal/domain"
)

// DefaultListLimit caps dashboard listings.
const DefaultListLimit = 50

// TicketRepository encapsulates ticket persistence. Tickets are stored
// document-style in the support_tickets table with the response thread
// held as a jsonb array.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, limit int) ([]domain.Ticket, error)
	AppendResponse(ctx context.Context, id string, response domain.Response, newStatus string) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO support_tickets (id, user_id, email, subject, message, category, analysis_id, status, created_at, updated_at, responses)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,'[]'::jsonb)`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.UserID,
		ticket.Email,
		ticket.Subject,
		ticket.Message,
		ticket.Category,
		ticket.AnalysisID,
		ticket.Status,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, user_id, email, subject, message, category, analysis_id, status, created_at, updated_at, responses
        FROM support_tickets WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTicket(row)
}

func (r *ticketRepository) List(ctx context.Context, limit int) ([]domain.Ticket, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	const query = `
        SELECT id, user_id, email, subject, message, category, analysis_id, status, created_at, updated_at, responses
        FROM support_tickets ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

// AppendResponse appends to the jsonb responses array in a single
// UPDATE. The concatenation happens store-side, so concurrent appends
// to the same ticket cannot overwrite each other's entries.
func (r *ticketRepository) AppendResponse(ctx context.Context, id string, response domain.Response, newStatus string) (*domain.Ticket, error) {
	encoded, err := json.Marshal([]domain.Response{response})
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}

	const query = `
        UPDATE support_tickets
        SET responses = responses || $2::jsonb,
            status = COALESCE(NULLIF($3, ''), status),
            updated_at = NOW()
        WHERE id=$1
        RETURNING id, user_id, email, subject, message, category, analysis_id, status, created_at, updated_at, responses`
	row := r.pool.QueryRow(ctx, query, id, string(encoded), newStatus)
	return scanTicket(row)
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket domain.Ticket
		raw    []byte
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Email,
		&ticket.Subject,
		&ticket.Message,
		&ticket.Category,
		&ticket.AnalysisID,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&raw,
	); err != nil {
		return nil, err
	}
	ticket.Responses = []domain.Response{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &ticket.Responses); err != nil {
			return nil, fmt.Errorf("decode responses: %w", err)
		}
	}
	return &ticket, nil
}
