package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/telecom-ops/admin-console/internal/api/dto"
)

// DashboardHandler serves the landing view after login.
type DashboardHandler struct {
	session SessionService
	api     AdminAPI
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(session SessionService, api AdminAPI) *DashboardHandler {
	return &DashboardHandler{session: session, api: api}
}

// Show handles GET /dashboard.
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	stats, err := h.api.Dashboard(requestContext(c))
	if err != nil {
		return backendFailure(err, "Failed to load dashboard statistics")
	}
	return c.JSON(fiber.Map{
		"view":    "dashboard",
		"session": dto.NewSessionResponse(h.session.Snapshot()),
		"stats":   stats,
	})
}
