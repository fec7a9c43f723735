package guard

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// DefaultLoginPath is where denied navigations are sent.
const DefaultLoginPath = "/login"

// SessionReader is the read side of the session the guard needs.
type SessionReader interface {
	IsLoggedIn() bool
}

// RoleReader reports roles of the cached profile.
type RoleReader interface {
	HasRole(role string) bool
}

// Decision is the outcome of a navigation attempt.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Evaluate allows navigation while a session token is held. It only reads
// IsLoggedIn, so a session that is still loading its profile passes.
func Evaluate(reader SessionReader) Decision {
	return EvaluateWith(reader, DefaultLoginPath)
}

// EvaluateWith is Evaluate with a custom login path.
func EvaluateWith(reader SessionReader, loginPath string) Decision {
	if reader != nil && reader.IsLoggedIn() {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: loginPath}
}

// Guard protects console views.
type Guard struct {
	reader    SessionReader
	loginPath string
}

// New constructs a guard redirecting to loginPath.
func New(reader SessionReader, loginPath string) *Guard {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	return &Guard{reader: reader, loginPath: loginPath}
}

// Handle re-evaluates the session on every request.
func (g *Guard) Handle(c *fiber.Ctx) error {
	decision := EvaluateWith(g.reader, g.loginPath)
	if !decision.Allowed {
		return c.Redirect(decision.RedirectTo, http.StatusFound)
	}
	return c.Next()
}

// RequireRole rejects requests whose cached profile lacks role.
func RequireRole(reader RoleReader, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if reader == nil || !reader.HasRole(role) {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}
