package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-intake/internal/api/http/handlers"
	"github.com/spec-kit/support-intake/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Forms           *handlers.FormsHandler
	Tickets         *handlers.TicketsHandler
	Admin           *handlers.AdminHandler
	AdminMiddleware *auth.AdminMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/support", cfg.Forms.Support)
	app.Get("/report-issue", cfg.Forms.ReportIssue)

	app.Post("/api/tickets", cfg.Tickets.CreateTicket)

	authGroup := app.Group("/auth")
	authGroup.Post("/admin/login", cfg.Admin.Login)

	adminGroup := app.Group("/admin", cfg.AdminMiddleware.Handle)
	adminGroup.Get("/", cfg.Admin.Dashboard)
	adminGroup.Get("/ticket/:id", cfg.Admin.TicketDetail)
	adminGroup.Post("/ticket/:id/respond", cfg.Admin.Respond)
}
