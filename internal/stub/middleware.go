package stub

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/telecom-ops/admin-console/internal/domain"
)

const principalKey = "stub_principal"

// bearerAuth validates bearer tokens and loads the calling account.
func bearerAuth(tokens *TokenManager, store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(http.StatusUnauthorized, "Missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(http.StatusUnauthorized, "Invalid authorization header")
		}

		claims, err := tokens.ParseToken(parts[1])
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "Invalid or expired token")
		}

		user, err := store.UserByUsername(claims.Subject)
		if err != nil || !user.Enabled {
			return fiber.NewError(http.StatusUnauthorized, "Account not found or disabled")
		}

		c.Locals(principalKey, user)
		return c.Next()
	}
}

// requireRole rejects callers without role.
func requireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := principalFromContext(c)
		if !ok || user.Role != role {
			return fiber.NewError(http.StatusForbidden, "Access denied")
		}
		return c.Next()
	}
}

func principalFromContext(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(principalKey).(*domain.User)
	return user, ok && user != nil
}
