package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/telecom-ops/admin-console/internal/api/dto"
)

// InquiriesHandler serves the customer inquiry views.
type InquiriesHandler struct {
	api AdminAPI
}

// NewInquiriesHandler constructs handler.
func NewInquiriesHandler(api AdminAPI) *InquiriesHandler {
	return &InquiriesHandler{api: api}
}

// List handles GET /inquiries.
func (h *InquiriesHandler) List(c *fiber.Ctx) error {
	inquiries, err := h.api.ListInquiries(requestContext(c))
	if err != nil {
		return backendFailure(err, "Failed to load inquiries")
	}
	return c.JSON(fiber.Map{"view": "inquiries", "data": inquiries})
}

// Respond handles POST /inquiries/:id/respond.
func (h *InquiriesHandler) Respond(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form dto.InquiryReplyForm
	if err := parseBody(c, &form); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}
	if err := h.api.RespondInquiry(requestContext(c), id, form.Response); err != nil {
		return backendFailure(err, "Failed to send response")
	}
	return ok(c, "Response sent successfully", nil)
}

// UpdateStatus handles PUT /inquiries/:id/status.
func (h *InquiriesHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form dto.InquiryStatusForm
	if err := parseBody(c, &form); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}
	if err := h.api.UpdateInquiryStatus(requestContext(c), id, form.Status); err != nil {
		return backendFailure(err, "Failed to update inquiry status")
	}
	return ok(c, fmt.Sprintf("Inquiry status updated to %s", form.Status), nil)
}
