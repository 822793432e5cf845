package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-intake/internal/api/dto"
	"github.com/spec-kit/support-intake/internal/auth"
	"github.com/spec-kit/support-intake/internal/repository"
	"github.com/spec-kit/support-intake/internal/service"
	apperrors "github.com/spec-kit/support-intake/pkg/util"
)

// AdminHandler serves the dashboard, ticket detail, and response
// endpoints. AI analysis failures never fail these pages; the analysis
// service always hands back a renderable value.
type AdminHandler struct {
	tickets           *service.TicketService
	analysis          *service.AnalysisService
	tokens            *auth.TokenManager
	adminPasswordHash string
}

// NewAdminHandler constructs handler.
func NewAdminHandler(tickets *service.TicketService, analysis *service.AnalysisService, tokens *auth.TokenManager, adminPasswordHash string) *AdminHandler {
	return &AdminHandler{
		tickets:           tickets,
		analysis:          analysis,
		tokens:            tokens,
		adminPasswordHash: adminPasswordHash,
	}
}

// Login POST /auth/admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	if h.adminPasswordHash == "" {
		return apperrors.NewValidationError("admin authentication not configured", nil)
	}
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := auth.ComparePassword(h.adminPasswordHash, req.Password); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := h.tokens.GenerateToken()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.AdminLoginResponse{Token: token, ExpiresAt: expiresAt})
}

// Dashboard GET /admin.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	tickets, err := h.tickets.List(c.UserContext(), repository.DefaultListLimit)
	if err != nil {
		return err
	}
	analysis := h.analysis.AnalyzeBatch(c.UserContext(), tickets)

	return c.Render("admin_dashboard", fiber.Map{
		"Tickets":  dto.FromTickets(tickets),
		"Analysis": analysis,
	})
}

// TicketDetail GET /admin/ticket/:id.
func (h *AdminHandler) TicketDetail(c *fiber.Ctx) error {
	ticket, err := h.tickets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	insight := h.analysis.AnalyzeSingle(c.UserContext(), *ticket)

	return c.Render("admin_ticket_detail", fiber.Map{
		"Ticket":  dto.FromTicket(ticket),
		"Insight": insight,
	})
}

// Respond POST /admin/ticket/:id/respond.
func (h *AdminHandler) Respond(c *fiber.Ctx) error {
	var req dto.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	_, err := h.tickets.Respond(c.UserContext(), c.Params("id"), service.TicketRespondInput{
		Message:   req.Message,
		Responder: req.Responder,
		NewStatus: req.Status,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.RespondResponse{
		Status:  "success",
		Message: "response recorded",
	})
}
