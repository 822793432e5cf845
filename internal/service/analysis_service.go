package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-intake/internal/ai"
	"github.com/spec-kit/support-intake/internal/domain"
)

const (
	batchPromptTickets = 10
	batchMessageChars  = 100
	fallbackRawChars   = 200
)

// AnalysisService produces AI-derived views over tickets. Every path
// returns a well-formed value: generation and parse failures degrade
// to deterministic fallbacks so the admin pages always render.
type AnalysisService struct {
	generator ai.TextGenerator
	logger    *zap.Logger
	timeout   time.Duration
}

// NewAnalysisService constructs the service. A nil generator is
// accepted and treated as permanently unavailable.
func NewAnalysisService(generator ai.TextGenerator, logger *zap.Logger, timeout time.Duration) *AnalysisService {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &AnalysisService{generator: generator, logger: logger, timeout: timeout}
}

// AnalyzeBatch summarizes up to the first ten tickets in caller order.
// An empty slice short-circuits without a generator call.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, tickets []domain.Ticket) domain.AnalysisResult {
	if len(tickets) == 0 {
		return domain.AnalysisResult{
			Summary:         "no tickets",
			CommonIssues:    []string{},
			Insights:        []string{},
			Recommendations: []string{},
		}
	}
	if len(tickets) > batchPromptTickets {
		tickets = tickets[:batchPromptTickets]
	}

	raw, err := s.generate(ctx, batchPrompt(tickets))
	if err != nil {
		s.logger.Warn("batch analysis generation failed", zap.Error(err))
		return domain.AnalysisResult{
			Summary:         fmt.Sprintf("analysis unavailable: %v", err),
			CommonIssues:    []string{"analysis unavailable"},
			Insights:        []string{"analysis unavailable"},
			Recommendations: []string{"retry later"},
		}
	}

	result, err := ai.Extract[domain.AnalysisResult](raw)
	if err != nil {
		s.logger.Warn("batch analysis output unparseable", zap.Error(err))
		return domain.AnalysisResult{
			Summary:         clip(raw, fallbackRawChars),
			CommonIssues:    []string{"could not parse analysis output"},
			Insights:        []string{"could not parse analysis output"},
			Recommendations: []string{"review tickets manually"},
		}
	}
	return normalizeResult(result)
}

// AnalyzeSingle produces an insight for one ticket.
func (s *AnalysisService) AnalyzeSingle(ctx context.Context, ticket domain.Ticket) domain.TicketInsight {
	raw, err := s.generate(ctx, singlePrompt(ticket))
	if err != nil {
		s.logger.Warn("ticket analysis generation failed",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return domain.TicketInsight{
			Urgency:             domain.UrgencyUnknown,
			CategorySuggestion:  ticket.Category,
			ResponseSuggestion:  fmt.Sprintf("analysis unavailable: %v", err),
			RelatedImprovements: []string{},
		}
	}

	insight, err := ai.Extract[domain.TicketInsight](raw)
	if err != nil {
		s.logger.Warn("ticket analysis output unparseable",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return domain.TicketInsight{
			Urgency:            domain.UrgencyMedium,
			CategorySuggestion: ticket.Category,
			ResponseSuggestion: "Thank you for reaching out. We are looking into your request and will follow up shortly.",
			RelatedImprovements: []string{
				"clarify the support form guidance",
				"expand the self-service documentation",
			},
		}
	}
	return normalizeInsight(insight, ticket)
}

func (s *AnalysisService) generate(ctx context.Context, prompt string) (string, error) {
	if s.generator == nil {
		return "", fmt.Errorf("text generation not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.generator.Generate(ctx, prompt)
}

func batchPrompt(tickets []domain.Ticket) string {
	var b strings.Builder
	b.WriteString("You are reviewing recent support tickets for an admin dashboard.\n")
	b.WriteString("Respond with JSON only, no prose, matching exactly:\n")
	b.WriteString(`{"summary": "...", "common_issues": ["..."], "insights": ["..."], "recommendations": ["..."]}`)
	b.WriteString("\n\nTickets:\n")
	for _, t := range tickets {
		fmt.Fprintf(&b, "- id=%s category=%s subject=%q message=%q\n",
			t.ID, t.Category, t.Subject, clip(t.Message, batchMessageChars))
	}
	return b.String()
}

func singlePrompt(ticket domain.Ticket) string {
	var b strings.Builder
	b.WriteString("You are triaging a single support ticket.\n")
	b.WriteString("Respond with JSON only, no prose, matching exactly:\n")
	b.WriteString(`{"urgency": "high|medium|low", "category_suggestion": "...", "response_suggestion": "...", "related_improvements": ["..."]}`)
	b.WriteString("\n\nTicket:\n")
	fmt.Fprintf(&b, "subject: %s\ncategory: %s\nmessage: %s\nsubmitter: %s\n",
		ticket.Subject, ticket.Category, ticket.Message, ticket.Email)
	return b.String()
}

func normalizeResult(result domain.AnalysisResult) domain.AnalysisResult {
	if result.CommonIssues == nil {
		result.CommonIssues = []string{}
	}
	if result.Insights == nil {
		result.Insights = []string{}
	}
	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}
	return result
}

func normalizeInsight(insight domain.TicketInsight, ticket domain.Ticket) domain.TicketInsight {
	switch insight.Urgency {
	case domain.UrgencyHigh, domain.UrgencyMedium, domain.UrgencyLow:
	default:
		insight.Urgency = domain.UrgencyUnknown
	}
	if insight.CategorySuggestion == "" {
		insight.CategorySuggestion = ticket.Category
	}
	if insight.RelatedImprovements == nil {
		insight.RelatedImprovements = []string{}
	}
	return insight
}

func clip(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
