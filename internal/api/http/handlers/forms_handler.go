package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// FormsHandler serves the user-facing submission pages. Access is
// presence-checked only: the caller must arrive with user and email
// query parameters, nothing is cryptographically verified.
type FormsHandler struct{}

// NewFormsHandler constructs handler.
func NewFormsHandler() *FormsHandler {
	return &FormsHandler{}
}

// Support GET /support.
func (h *FormsHandler) Support(c *fiber.Ctx) error {
	user := c.Query("user")
	email := c.Query("email")
	if user == "" || email == "" {
		return c.Render("auth_required", fiber.Map{})
	}

	return c.Render("support_form", fiber.Map{
		"UserID": user,
		"Email":  email,
	})
}

// ReportIssue GET /report-issue.
func (h *FormsHandler) ReportIssue(c *fiber.Ctx) error {
	user := c.Query("user")
	email := c.Query("email")
	if user == "" || email == "" {
		return c.Render("auth_required", fiber.Map{})
	}

	analysisID := c.Query("analysisId")
	return c.Render("issue_report_form", fiber.Map{
		"UserID":     user,
		"Email":      email,
		"AnalysisID": analysisID,
		"Subject":    fmt.Sprintf("issue report for analysis %s", analysisID),
		"Category":   "technical",
	})
}
