package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/telecom-ops/admin-console/internal/api/dto"
	apperrors "github.com/telecom-ops/admin-console/pkg/util"
)

// DashboardPath is where a successful login leads.
const DashboardPath = "/dashboard"

// AuthHandler serves the login entry point and the session endpoints.
type AuthHandler struct {
	session SessionService
	logger  *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(session SessionService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{session: session, logger: logger}
}

// LoginView handles GET /login.
func (h *AuthHandler) LoginView(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"view":    "login",
		"session": dto.NewSessionResponse(h.session.Snapshot()),
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	creds := req.Credentials()
	if !creds.Complete() {
		return apperrors.NewValidationError("Please enter both username and password", nil)
	}

	if _, err := h.session.Login(requestContext(c), creds); err != nil {
		return apperrors.NewAuthenticationFailed("Invalid username or password", err)
	}

	return c.JSON(dto.MessageResponse{Message: "Login successful! Redirecting...", Redirect: DashboardPath})
}

// Logout handles POST /logout. The operator always lands on the login view.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.session.Logout(requestContext(c)); err != nil {
		h.logger.Warn("logout could not clear stored token", zap.Error(err))
	}
	return c.Redirect(h.session.LoginPath(), http.StatusSeeOther)
}

// Session handles GET /session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	return c.JSON(dto.NewSessionResponse(h.session.Snapshot()))
}
