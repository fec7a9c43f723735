package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/telecom-ops/admin-console/internal/backend"
	"github.com/telecom-ops/admin-console/internal/domain"
	"github.com/telecom-ops/admin-console/internal/observability"
	apperrors "github.com/telecom-ops/admin-console/pkg/util"
)

// SessionService is the session surface the console views use.
type SessionService interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResponse, error)
	Logout(ctx context.Context) error
	Snapshot() domain.Snapshot
	LoginPath() string
}

// AdminAPI is the authenticated backend surface behind the views.
type AdminAPI interface {
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, req domain.UserRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, req domain.UserRequest) (*domain.User, error)
	ToggleUserStatus(ctx context.Context, id int64) error
	DeleteUser(ctx context.Context, id int64) error
	AssignPackage(ctx context.Context, userID int64, req domain.PackageRequest) (*domain.Package, error)

	ListPackages(ctx context.Context) ([]domain.Package, error)
	CreatePackage(ctx context.Context, req domain.PackageRequest) (*domain.Package, error)
	UpdatePackage(ctx context.Context, id int64, req domain.PackageRequest) (*domain.Package, error)
	TogglePackageStatus(ctx context.Context, id int64) error
	DeletePackage(ctx context.Context, id int64) error

	ListInquiries(ctx context.Context) ([]domain.Inquiry, error)
	RespondInquiry(ctx context.Context, id int64, response string) error
	UpdateInquiryStatus(ctx context.Context, id int64, status domain.InquiryStatus) error
}

// requestContext forwards the inbound request id to backend calls.
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if id := observability.RequestIDFromContext(c); id != "" {
		ctx = backend.WithRequestID(ctx, id)
	}
	return ctx
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": c.Params("id")})
	}
	return int64(id), nil
}

// backendFailure turns a failed admin call into a 502 carrying the backend
// message, or fallback when the backend gave none.
func backendFailure(err error, fallback string) error {
	return apperrors.NewTransportError(backend.Message(err, fallback), err)
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func created(c *fiber.Ctx, message string, data any) error {
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": message, "data": data})
}

func ok(c *fiber.Ctx, message string, data any) error {
	body := fiber.Map{"message": message}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(body)
}
