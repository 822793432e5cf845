package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-intake/internal/ai"
	httptransport "github.com/spec-kit/support-intake/internal/api/http"
	"github.com/spec-kit/support-intake/internal/api/http/handlers"
	"github.com/spec-kit/support-intake/internal/auth"
	"github.com/spec-kit/support-intake/internal/config"
	"github.com/spec-kit/support-intake/internal/domain"
	"github.com/spec-kit/support-intake/internal/events"
	"github.com/spec-kit/support-intake/internal/observability"
	"github.com/spec-kit/support-intake/internal/service"
)

type memoryRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{tickets: make(map[string]domain.Ticket)}
}

func (r *memoryRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *memoryRepo) List(ctx context.Context, limit int) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryRepo) AppendResponse(ctx context.Context, id string, response domain.Response, newStatus string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket.Responses = append(ticket.Responses, response)
	if newStatus != "" {
		ticket.Status = newStatus
	}
	ticket.UpdatedAt = time.Now().UTC()
	r.tickets[id] = ticket
	return &ticket, nil
}

type cannedGenerator struct {
	response string
}

func (g *cannedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.response, nil
}

func newTestApp(t *testing.T, repo *memoryRepo, generator ai.TextGenerator, adminPasswordHash string) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		Views: html.New("../../../../templates", ".html"),
	})
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, config.CORSConfig{}, 5*time.Second)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repo,
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	analysisService := service.NewAnalysisService(generator, logger, time.Second)

	tokenManager := auth.NewTokenManager("test-secret", 10)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler("test", "dev", nil, nil),
		Forms:           handlers.NewFormsHandler(),
		Tickets:         handlers.NewTicketsHandler(ticketService),
		Admin:           handlers.NewAdminHandler(ticketService, analysisService, tokenManager, adminPasswordHash),
		AdminMiddleware: auth.NewAdminMiddleware(tokenManager, adminPasswordHash != ""),
	})
	return app
}

func defaultApp(t *testing.T, repo *memoryRepo) *fiber.App {
	insight := `{"urgency":"low","category_suggestion":"billing","response_suggestion":"will refund","related_improvements":[]}`
	return newTestApp(t, repo, &cannedGenerator{response: insight}, "")
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestCreateTicketAndViewDetail(t *testing.T) {
	repo := newMemoryRepo()
	app := defaultApp(t, repo)

	resp := postJSON(t, app, "/api/tickets", fiber.Map{
		"subject":  "X",
		"message":  "Y",
		"category": "billing",
		"user_id":  "u1",
		"email":    "a@b.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Status   string `json:"status"`
		TicketID string `json:"ticket_id"`
		Message  string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &envelope))
	assert.Equal(t, "success", envelope.Status)
	assert.NotEmpty(t, envelope.TicketID)

	detail, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/ticket/"+envelope.TicketID, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, detail.StatusCode)

	page := readBody(t, detail)
	assert.Contains(t, page, "X")
	assert.Contains(t, page, "a@b.com")
	assert.Contains(t, page, "will refund")
}

func TestCreateTicketValidation(t *testing.T) {
	app := defaultApp(t, newMemoryRepo())

	resp := postJSON(t, app, "/api/tickets", fiber.Map{"subject": "X"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "VALIDATION_FAILED")
}

func TestSupportFormGating(t *testing.T) {
	app := defaultApp(t, newMemoryRepo())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/support", nil))
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Sign in required")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/support?user=u1&email=a%40b.com", nil))
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Contains(t, body, "u1")
	assert.Contains(t, body, "a@b.com")
}

func TestReportIssueFormPrefill(t *testing.T) {
	app := defaultApp(t, newMemoryRepo())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/report-issue?analysisId=an-42&user=u1&email=a%40b.com", nil))
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Contains(t, body, "issue report for analysis an-42")
	assert.Contains(t, body, "technical")
}

func TestAdminDashboardRenders(t *testing.T) {
	repo := newMemoryRepo()
	summary := `{"summary":"quiet day","common_issues":[],"insights":[],"recommendations":[]}`
	app := newTestApp(t, repo, &cannedGenerator{response: summary}, "")

	resp := postJSON(t, app, "/api/tickets", fiber.Map{
		"subject": "printer on fire",
		"message": "please help",
		"user_id": "u1",
		"email":   "a@b.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dash, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, dash.StatusCode)

	page := readBody(t, dash)
	assert.Contains(t, page, "quiet day")
	assert.Contains(t, page, "printer on fire")
}

func TestTicketDetailNotFound(t *testing.T) {
	app := defaultApp(t, newMemoryRepo())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/ticket/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRespondEndpoint(t *testing.T) {
	repo := newMemoryRepo()
	app := defaultApp(t, repo)

	created := postJSON(t, app, "/api/tickets", fiber.Map{
		"subject": "X", "message": "Y", "user_id": "u1", "email": "a@b.com",
	})
	var envelope struct {
		TicketID string `json:"ticket_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(readBody(t, created)), &envelope))

	resp := postJSON(t, app, fmt.Sprintf("/admin/ticket/%s/respond", envelope.TicketID), fiber.Map{
		"message": "on it",
		"status":  "in_progress",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "success")

	stored, err := repo.GetByID(context.Background(), envelope.TicketID)
	require.NoError(t, err)
	require.Len(t, stored.Responses, 1)
	assert.Equal(t, "admin", stored.Responses[0].Responder)
	assert.Equal(t, "in_progress", stored.Status)
}

func TestRespondNotFound(t *testing.T) {
	app := defaultApp(t, newMemoryRepo())

	resp := postJSON(t, app, "/admin/ticket/nope/respond", fiber.Map{"message": "hi"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminAuthWhenConfigured(t *testing.T) {
	hash, err := auth.HashPassword("letmein", 4)
	require.NoError(t, err)

	repo := newMemoryRepo()
	summary := `{"summary":"ok","common_issues":[],"insights":[],"recommendations":[]}`
	app := newTestApp(t, repo, &cannedGenerator{response: summary}, hash)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	login := postJSON(t, app, "/auth/admin/login", fiber.Map{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, login.StatusCode)

	login = postJSON(t, app, "/auth/admin/login", fiber.Map{"password": "letmein"})
	require.Equal(t, http.StatusOK, login.StatusCode)

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(readBody(t, login)), &session))
	require.NotEmpty(t, session.Token)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
