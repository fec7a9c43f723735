package stub

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/telecom-ops/admin-console/internal/domain"
)

type handlers struct {
	store  *Store
	tokens *TokenManager
	logger *zap.Logger
}

func (h *handlers) login(c *fiber.Ctx) error {
	var creds domain.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.store.Authenticate(creds.Username, creds.Password)
	if err != nil {
		h.logger.Info("login rejected", zap.String("username", creds.Username))
		return fiber.NewError(http.StatusUnauthorized, "Invalid username or password")
	}

	token, _, err := h.tokens.GenerateToken(user.Username, user.Role)
	if err != nil {
		return err
	}

	return c.JSON(domain.LoginResponse{
		Token:       token,
		Type:        "Bearer",
		Message:     "Login successful",
		Username:    user.Username,
		Authorities: []domain.Authority{{Authority: "ROLE_" + user.Role}},
	})
}

func (h *handlers) profile(c *fiber.Ctx) error {
	user, ok := principalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return c.JSON(user)
}

func (h *handlers) dashboard(c *fiber.Ctx) error {
	return c.JSON(h.store.Stats())
}

func (h *handlers) listUsers(c *fiber.Ctx) error {
	return c.JSON(h.store.Users())
}

func (h *handlers) getUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.store.User(id)
	if err != nil {
		return storeError(err, "User")
	}
	return c.JSON(user)
}

func (h *handlers) createUser(c *fiber.Ctx) error {
	var req domain.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "Username, password and email are required")
	}
	user, err := h.store.CreateUser(req)
	if err != nil {
		return storeError(err, "User")
	}
	return c.Status(http.StatusCreated).JSON(user)
}

func (h *handlers) updateUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req domain.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	user, err := h.store.UpdateUser(id, req)
	if err != nil {
		return storeError(err, "User")
	}
	return c.JSON(user)
}

func (h *handlers) toggleUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.store.ToggleUser(id); err != nil {
		return storeError(err, "User")
	}
	return c.JSON(fiber.Map{"message": "User status updated"})
}

func (h *handlers) deleteUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteUser(id); err != nil {
		return storeError(err, "User")
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *handlers) assignPackage(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req domain.PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	pkg, err := h.store.AssignPackage(id, req)
	if err != nil {
		return storeError(err, "User")
	}
	return c.Status(http.StatusCreated).JSON(pkg)
}

func (h *handlers) listPackages(c *fiber.Ctx) error {
	return c.JSON(h.store.Packages())
}

func (h *handlers) createPackage(c *fiber.Ctx) error {
	var req domain.PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "Package name is required")
	}
	return c.Status(http.StatusCreated).JSON(h.store.CreatePackage(req))
}

func (h *handlers) updatePackage(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req domain.PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	pkg, err := h.store.UpdatePackage(id, req)
	if err != nil {
		return storeError(err, "Package")
	}
	return c.JSON(pkg)
}

func (h *handlers) togglePackage(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.store.TogglePackage(id); err != nil {
		return storeError(err, "Package")
	}
	return c.JSON(fiber.Map{"message": "Package status updated"})
}

func (h *handlers) deletePackage(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.store.DeletePackage(id); err != nil {
		return storeError(err, "Package")
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *handlers) listInquiries(c *fiber.Ctx) error {
	return c.JSON(h.store.Inquiries())
}

func (h *handlers) respondInquiry(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var body struct {
		Response string `json:"response"`
	}
	if err := c.BodyParser(&body); err != nil || body.Response == "" {
		return fiber.NewError(http.StatusBadRequest, "Response is required")
	}
	if err := h.store.RespondInquiry(id, body.Response); err != nil {
		return storeError(err, "Inquiry")
	}
	return c.JSON(fiber.Map{"message": "Response sent"})
}

func (h *handlers) inquiryStatus(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var body struct {
		Status domain.InquiryStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || !body.Status.Valid() {
		return fiber.NewError(http.StatusBadRequest, "Invalid status")
	}
	if err := h.store.SetInquiryStatus(id, body.Status); err != nil {
		return storeError(err, "Inquiry")
	}
	return c.JSON(fiber.Map{"message": "Status updated"})
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "Invalid id")
	}
	return int64(id), nil
}

func storeError(err error, resource string) error {
	switch {
	case errors.Is(err, errNotFound):
		return fiber.NewError(http.StatusNotFound, resource+" not found")
	case errors.Is(err, errConflict):
		return fiber.NewError(http.StatusConflict, resource+" already exists")
	default:
		return err
	}
}
