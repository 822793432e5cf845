package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-intake/internal/domain"
	"github.com/spec-kit/support-intake/internal/events"
	"github.com/spec-kit/support-intake/internal/persistence"
	"github.com/spec-kit/support-intake/internal/repository"
	apperrors "github.com/spec-kit/support-intake/pkg/util"
)

// TicketService coordinates the ticket lifecycle.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	limiter    *persistence.RateLimiter
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Limiter    *persistence.RateLimiter
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject    string
	Message    string
	Category   string
	UserID     string
	Email      string
	AnalysisID *string
}

// TicketRespondInput describes an admin response payload.
type TicketRespondInput struct {
	Message   string
	Responder string
	NewStatus string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		limiter:    deps.Limiter,
	}
}

// Create persists a new ticket with a fresh id and open status.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	message := strings.TrimSpace(input.Message)
	if subject == "" || message == "" || input.UserID == "" || input.Email == "" {
		return nil, apperrors.NewValidationError("subject, message, user_id, email required", nil)
	}
	if !s.limiter.Allow(ctx, input.UserID) {
		return nil, apperrors.NewTooManyRequests("ticket creation limit reached, try again later")
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = domain.DefaultCategory
	}

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:         uuid.NewString(),
		UserID:     input.UserID,
		Email:      input.Email,
		Subject:    subject,
		Message:    message,
		Category:   category,
		AnalysisID: input.AnalysisID,
		Status:     domain.DefaultStatus,
		CreatedAt:  now,
		UpdatedAt:  now,
		Responses:  []domain.Response{},
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewStoreUnavailable("ticket creation", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			UserID:         ticket.UserID,
			Email:          ticket.Email,
			Category:       ticket.Category,
			Subject:        ticket.Subject,
			AnalysisID:     ticket.AnalysisID,
			MessagePreview: clip(ticket.Message, 100),
		},
	})
	return ticket, nil
}

// Get fetches a single ticket.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.NewStoreUnavailable("ticket lookup", err)
	}
	return ticket, nil
}

// List returns the most recently created tickets, newest first.
func (s *TicketService) List(ctx context.Context, limit int) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, limit)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("ticket listing", err)
	}
	return tickets, nil
}

// Respond appends an admin response, optionally overwriting status.
func (s *TicketService) Respond(ctx context.Context, id string, input TicketRespondInput) (*domain.Ticket, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}
	responder := strings.TrimSpace(input.Responder)
	if responder == "" {
		responder = domain.DefaultResponder
	}

	response := domain.Response{
		ID:        uuid.NewString(),
		Message:   message,
		Responder: responder,
		CreatedAt: time.Now().UTC(),
	}

	ticket, err := s.tickets.AppendResponse(ctx, id, response, strings.TrimSpace(input.NewStatus))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.NewStoreUnavailable("response append", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketResponded,
		TicketID: ticket.ID,
		Payload: events.TicketRespondedPayload{
			ResponseID: response.ID,
			Responder:  response.Responder,
			NewStatus:  input.NewStatus,
		},
	})
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
