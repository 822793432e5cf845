package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-intake/internal/api/dto"
	"github.com/spec-kit/support-intake/internal/service"
	apperrors "github.com/spec-kit/support-intake/pkg/util"
)

// TicketsHandler manages the ticket intake endpoint.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Create(c.UserContext(), service.TicketCreateInput{
		Subject:    req.Subject,
		Message:    req.Message,
		Category:   req.Category,
		UserID:     req.UserID,
		Email:      req.Email,
		AnalysisID: req.AnalysisID,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.CreateTicketResponse{
		Status:   "success",
		TicketID: ticket.ID,
		Message:  "support ticket received",
	})
}
