package domain

// Urgency levels reported by single-ticket analysis. "unknown" marks
// the degraded result returned when the generator is unreachable.
const (
	UrgencyHigh    = "high"
	UrgencyMedium  = "medium"
	UrgencyLow     = "low"
	UrgencyUnknown = "unknown"
)

// AnalysisResult is the AI-derived summary over a batch of tickets.
// It is recomputed per dashboard view and never persisted.
type AnalysisResult struct {
	Summary         string   `json:"summary"`
	CommonIssues    []string `json:"common_issues"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

// TicketInsight is the AI-derived analysis of a single ticket.
type TicketInsight struct {
	Urgency             string   `json:"urgency"`
	CategorySuggestion  string   `json:"category_suggestion"`
	ResponseSuggestion  string   `json:"response_suggestion"`
	RelatedImprovements []string `json:"related_improvements"`
}
