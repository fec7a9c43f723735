package stub

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/telecom-ops/admin-console/internal/config"
	"github.com/telecom-ops/admin-console/internal/domain"
	"github.com/telecom-ops/admin-console/internal/observability"
)

// APIPrefix is the path every stub route lives under.
const APIPrefix = "/api"

// Server is the development backend the console logs into.
type Server struct {
	app    *fiber.App
	store  *Store
	tokens *TokenManager
	logger *zap.Logger
}

// New seeds a store from cfg and wires the routes.
func New(cfg config.StubConfig, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("stub")

	store := NewStore(cfg.BcryptCost)
	if err := seed(store, cfg); err != nil {
		return nil, fmt.Errorf("seed stub data: %w", err)
	}

	s := &Server{
		store:  store,
		tokens: NewTokenManager(cfg.JWTSecret, cfg.TokenTTLMinutes),
		logger: logger,
	}
	s.app = fiber.New(fiber.Config{
		AppName:      "admin-console-stub",
		ErrorHandler: s.errorHandler,
	})
	s.routes()
	return s, nil
}

// App exposes the fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Store exposes the backing data, mainly for tests.
func (s *Server) Store() *Store {
	return s.store
}

// Tokens exposes the token manager, mainly for tests.
func (s *Server) Tokens() *TokenManager {
	return s.tokens
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes() {
	h := &handlers{store: s.store, tokens: s.tokens, logger: s.logger}

	s.app.Use(observability.RequestID())
	s.app.Use(observability.RequestLogger(s.logger, nil))

	api := s.app.Group(APIPrefix)
	api.Post("/auth/login", h.login)

	admin := api.Group("/admin", bearerAuth(s.tokens, s.store), requireRole(domain.RoleAdmin))
	admin.Get("/profile", h.profile)
	admin.Get("/dashboard", h.dashboard)

	admin.Get("/users", h.listUsers)
	admin.Post("/users", h.createUser)
	admin.Get("/users/:id", h.getUser)
	admin.Put("/users/:id", h.updateUser)
	admin.Put("/users/:id/toggle-status", h.toggleUser)
	admin.Delete("/users/:id", h.deleteUser)
	admin.Post("/users/:id/packages", h.assignPackage)

	admin.Get("/packages", h.listPackages)
	admin.Post("/packages", h.createPackage)
	admin.Put("/packages/:id", h.updatePackage)
	admin.Put("/packages/:id/toggle-status", h.togglePackage)
	admin.Delete("/packages/:id", h.deletePackage)

	admin.Get("/inquiries", h.listInquiries)
	admin.Put("/inquiries/:id/respond", h.respondInquiry)
	admin.Put("/inquiries/:id/status", h.inquiryStatus)
}

// errorHandler answers with the {"message": ...} body the console parses.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		message = fe.Message
	} else {
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"message": message})
}

func seed(store *Store, cfg config.StubConfig) error {
	if _, err := store.CreateUser(domain.UserRequest{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Email:    cfg.AdminEmail,
		FullName: cfg.AdminFullName,
		Role:     domain.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("admin account: %w", err)
	}

	customer, err := store.CreateUser(domain.UserRequest{
		Username: "john.doe",
		Password: "password123",
		Email:    "john.doe@example.com",
		FullName: "John Doe",
		Role:     domain.RoleUser,
	})
	if err != nil {
		return fmt.Errorf("customer account: %w", err)
	}
	if err := store.SetCategory(customer.ID, domain.PackageTypePrepaid); err != nil {
		return fmt.Errorf("customer category: %w", err)
	}

	store.CreatePackage(domain.PackageRequest{
		Name: "Starter", Description: "Entry level prepaid bundle",
		Price: 9.99, DataLimitGB: 5, VoiceMinutes: 100, SMSCount: 100,
		PackageType: domain.PackageTypePrepaid,
	})
	store.CreatePackage(domain.PackageRequest{
		Name: "Unlimited", Description: "Postpaid plan with large allowances",
		Price: 49.99, DataLimitGB: 100, VoiceMinutes: 3000, SMSCount: 1000,
		PackageType: domain.PackageTypePostpaid,
	})

	if _, err := store.AddInquiry(customer.ID, "Roaming charges", "I was charged for roaming while at home.", "BILLING"); err != nil {
		return fmt.Errorf("sample inquiry: %w", err)
	}
	return nil
}
