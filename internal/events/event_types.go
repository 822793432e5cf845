package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketResponded EventType = "ticket_responded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	UserID         string  `json:"user_id"`
	Email          string  `json:"email"`
	Category       string  `json:"category"`
	Subject        string  `json:"subject"`
	AnalysisID     *string `json:"analysis_id,omitempty"`
	MessagePreview string  `json:"message_preview"`
}

// TicketRespondedPayload payload.
type TicketRespondedPayload struct {
	ResponseID string `json:"response_id"`
	Responder  string `json:"responder"`
	NewStatus  string `json:"new_status,omitempty"`
}
