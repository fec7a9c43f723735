package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/telecom-ops/admin-console/internal/api/dto"
)

// PackagesHandler serves the package catalogue views.
type PackagesHandler struct {
	api AdminAPI
}

// NewPackagesHandler constructs handler.
func NewPackagesHandler(api AdminAPI) *PackagesHandler {
	return &PackagesHandler{api: api}
}

// List handles GET /packages.
func (h *PackagesHandler) List(c *fiber.Ctx) error {
	pkgs, err := h.api.ListPackages(requestContext(c))
	if err != nil {
		return backendFailure(err, "Failed to load packages")
	}
	return c.JSON(fiber.Map{"view": "packages", "data": pkgs})
}

// Create handles POST /packages.
func (h *PackagesHandler) Create(c *fiber.Ctx) error {
	var form dto.PackageForm
	if err := parseBody(c, &form); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}
	pkg, err := h.api.CreatePackage(requestContext(c), form.Request())
	if err != nil {
		return backendFailure(err, "Failed to create package")
	}
	return created(c, "Package created successfully", pkg)
}

// Update handles PUT /packages/:id.
func (h *PackagesHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form dto.PackageForm
	if err := parseBody(c, &form); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}
	pkg, err := h.api.UpdatePackage(requestContext(c), id, form.Request())
	if err != nil {
		return backendFailure(err, "Failed to update package")
	}
	return ok(c, "Package updated successfully", pkg)
}

// ToggleStatus handles POST /packages/:id/toggle-status.
func (h *PackagesHandler) ToggleStatus(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.api.TogglePackageStatus(requestContext(c), id); err != nil {
		return backendFailure(err, "Failed to update package status")
	}
	return ok(c, fmt.Sprintf("Package %d status updated successfully", id), nil)
}

// Delete handles DELETE /packages/:id.
func (h *PackagesHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.api.DeletePackage(requestContext(c), id); err != nil {
		return backendFailure(err, "Failed to delete package")
	}
	return ok(c, fmt.Sprintf("Package %d deleted successfully", id), nil)
}
