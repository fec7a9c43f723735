package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/telecom-ops/admin-console/internal/api/dto"
	"github.com/telecom-ops/admin-console/internal/domain"
)

// UsersHandler serves the user management views.
type UsersHandler struct {
	api AdminAPI
}

// NewUsersHandler constructs handler.
func NewUsersHandler(api AdminAPI) *UsersHandler {
	return &UsersHandler{api: api}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.api.ListUsers(requestContext(c))
	if err != nil {
		return backendFailure(err, "Failed to load users")
	}
	return c.JSON(fiber.Map{"view": "users", "data": users})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.api.GetUser(requestContext(c), id)
	if err != nil {
		return backendFailure(err, "Failed to load user details")
	}
	return c.JSON(fiber.Map{"view": "user-details", "data": user})
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var form dto.UserForm
	if err := parseBody(c, &form); err != nil {
		return err
	}
	if err := form.Validate(true); err != nil {
		return err
	}
	user, err := h.api.CreateUser(requestContext(c), form.Request())
	if err != nil {
		return backendFailure(err, "Failed to create user")
	}
	return created(c, "User created successfully", user)
}

// Update handles PUT /users/:id. An empty password is left unchanged.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form dto.UserForm
	if err := parseBody(c, &form); err != nil {
		return err
	}
	if err := form.Validate(false); err != nil {
		return err
	}
	user, err := h.api.UpdateUser(requestContext(c), id, form.Request())
	if err != nil {
		return backendFailure(err, "Failed to update user")
	}
	return ok(c, "User updated successfully", user)
}

// ToggleStatus handles POST /users/:id/toggle-status.
func (h *UsersHandler) ToggleStatus(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.api.ToggleUserStatus(requestContext(c), id); err != nil {
		return backendFailure(err, "Failed to update user status")
	}
	return ok(c, fmt.Sprintf("User %d status updated successfully", id), nil)
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.api.DeleteUser(requestContext(c), id); err != nil {
		return backendFailure(err, "Failed to delete user")
	}
	return ok(c, fmt.Sprintf("User %d deleted successfully", id), nil)
}

// AssignPackage handles POST /users/:id/packages.
func (h *UsersHandler) AssignPackage(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form dto.PackageForm
	if err := parseBody(c, &form); err != nil {
		return err
	}
	if err := form.ValidateForUser(); err != nil {
		return err
	}
	ctx := requestContext(c)
	if form.PackageType == "" {
		user, err := h.api.GetUser(ctx, id)
		if err != nil {
			return backendFailure(err, "Failed to create package")
		}
		form.PackageType = packageTypeForCategory(user.Category)
	}
	pkg, err := h.api.AssignPackage(ctx, id, form.Request())
	if err != nil {
		return backendFailure(err, "Failed to create package")
	}
	return created(c, "Package created successfully", pkg)
}

// packageTypeForCategory maps a subscriber category onto a package type.
// Unknown categories leave the type unset.
func packageTypeForCategory(category string) string {
	switch category {
	case domain.PackageTypePrepaid, domain.PackageTypePostpaid:
		return category
	}
	return ""
}
