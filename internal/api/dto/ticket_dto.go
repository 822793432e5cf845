package dto

import (
	"time"

	"github.com/spec-kit/support-intake/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject    string  `json:"subject" form:"subject"`
	Message    string  `json:"message" form:"message"`
	Category   string  `json:"category" form:"category"`
	UserID     string  `json:"user_id" form:"user_id"`
	Email      string  `json:"email" form:"email"`
	AnalysisID *string `json:"analysis_id" form:"analysis_id"`
}

// CreateTicketResponse is the success envelope for ticket intake.
type CreateTicketResponse struct {
	Status   string `json:"status"`
	TicketID string `json:"ticket_id"`
	Message  string `json:"message"`
}

// RespondRequest payload for admin responses.
type RespondRequest struct {
	Message   string `json:"message" form:"message"`
	Responder string `json:"responder" form:"responder"`
	Status    string `json:"status" form:"status"`
}

// RespondResponse is the success envelope for admin responses.
type RespondResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AdminLoginRequest payload.
type AdminLoginRequest struct {
	Password string `json:"password" form:"password"`
}

// AdminLoginResponse carries the issued session token.
type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TicketView is the ticket representation rendered on admin pages and
// returned by the intake API.
type TicketView struct {
	ID         string         `json:"ticket_id"`
	UserID     string         `json:"user_id"`
	Email      string         `json:"email"`
	Subject    string         `json:"subject"`
	Message    string         `json:"message"`
	Category   string         `json:"category"`
	AnalysisID *string        `json:"analysis_id"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Responses  []ResponseView `json:"responses"`
}

// ResponseView is a single thread entry.
type ResponseView struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Responder string    `json:"responder"`
	CreatedAt time.Time `json:"created_at"`
}

// FromTicket maps a domain ticket into its view form.
func FromTicket(ticket *domain.Ticket) TicketView {
	responses := make([]ResponseView, 0, len(ticket.Responses))
	for _, r := range ticket.Responses {
		responses = append(responses, ResponseView{
			ID:        r.ID,
			Message:   r.Message,
			Responder: r.Responder,
			CreatedAt: r.CreatedAt,
		})
	}
	return TicketView{
		ID:         ticket.ID,
		UserID:     ticket.UserID,
		Email:      ticket.Email,
		Subject:    ticket.Subject,
		Message:    ticket.Message,
		Category:   ticket.Category,
		AnalysisID: ticket.AnalysisID,
		Status:     ticket.Status,
		CreatedAt:  ticket.CreatedAt,
		UpdatedAt:  ticket.UpdatedAt,
		Responses:  responses,
	}
}

// FromTickets maps a slice of tickets.
func FromTickets(tickets []domain.Ticket) []TicketView {
	views := make([]TicketView, 0, len(tickets))
	for i := range tickets {
		views = append(views, FromTicket(&tickets[i]))
	}
	return views
}
