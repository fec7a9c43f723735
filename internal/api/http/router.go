package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/telecom-ops/admin-console/internal/api/http/handlers"
	"github.com/telecom-ops/admin-console/internal/guard"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Users     *handlers.UsersHandler
	Packages  *handlers.PackagesHandler
	Inquiries *handlers.InquiriesHandler
	Guard     *guard.Guard
	// AdminOnly, when set, runs after the guard on every protected view.
	AdminOnly fiber.Handler
	LoginPath string
}

// RegisterRoutes wires HTTP routes. Anything unmatched lands on the login view.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = guard.DefaultLoginPath
	}
	toLogin := func(c *fiber.Ctx) error {
		return c.Redirect(loginPath, http.StatusFound)
	}

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Get("/", toLogin)
	app.Get(loginPath, cfg.Auth.LoginView)
	app.Post(loginPath, cfg.Auth.Login)
	app.Post("/logout", cfg.Auth.Logout)
	app.Get("/session", cfg.Auth.Session)

	protected := func(h fiber.Handler) []fiber.Handler {
		chain := []fiber.Handler{cfg.Guard.Handle}
		if cfg.AdminOnly != nil {
			chain = append(chain, cfg.AdminOnly)
		}
		return append(chain, h)
	}

	app.Get(handlers.DashboardPath, protected(cfg.Dashboard.Show)...)

	app.Get("/users", protected(cfg.Users.List)...)
	app.Post("/users", protected(cfg.Users.Create)...)
	app.Get("/users/:id", protected(cfg.Users.Get)...)
	app.Put("/users/:id", protected(cfg.Users.Update)...)
	app.Post("/users/:id/toggle-status", protected(cfg.Users.ToggleStatus)...)
	app.Delete("/users/:id", protected(cfg.Users.Delete)...)
	app.Post("/users/:id/packages", protected(cfg.Users.AssignPackage)...)

	app.Get("/packages", protected(cfg.Packages.List)...)
	app.Post("/packages", protected(cfg.Packages.Create)...)
	app.Put("/packages/:id", protected(cfg.Packages.Update)...)
	app.Post("/packages/:id/toggle-status", protected(cfg.Packages.ToggleStatus)...)
	app.Delete("/packages/:id", protected(cfg.Packages.Delete)...)

	app.Get("/inquiries", protected(cfg.Inquiries.List)...)
	app.Post("/inquiries/:id/respond", protected(cfg.Inquiries.Respond)...)
	app.Put("/inquiries/:id/status", protected(cfg.Inquiries.UpdateStatus)...)

	app.Use(toLogin)
}
