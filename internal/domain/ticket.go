package domain

import "time"

// Default values applied when a submitter omits optional fields.
const (
	DefaultCategory  = "general"
	DefaultStatus    = "open"
	DefaultResponder = "admin"
)

// Response is an admin reply appended to a ticket's thread. The
// sequence is append-only; entries are never edited or removed.
type Response struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Responder string    `json:"responder"`
	CreatedAt time.Time `json:"created_at"`
}

// Ticket is the aggregate for a user-submitted support request.
// Status is a free-form string ("open" at creation, overwritten by
// admin responses); AnalysisID optionally links the ticket to the
// external analysis record it was filed against.
type Ticket struct {
	ID         string     `json:"ticket_id"`
	UserID     string     `json:"user_id"`
	Email      string     `json:"email"`
	Subject    string     `json:"subject"`
	Message    string     `json:"message"`
	Category   string     `json:"category"`
	AnalysisID *string    `json:"analysis_id"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Responses  []Response `json:"responses"`
}
