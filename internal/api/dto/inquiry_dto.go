package dto

import (
	"strings"

	"github.com/telecom-ops/admin-console/internal/domain"
)

// InquiryReplyForm carries the operator's answer.
type InquiryReplyForm struct {
	Response string `json:"response" form:"response"`
}

// Validate requires a non-blank reply.
func (f *InquiryReplyForm) Validate() error {
	f.Response = strings.TrimSpace(f.Response)
	if f.Response == "" {
		return fieldError("response", "Response is required")
	}
	return nil
}

// InquiryStatusForm moves an inquiry through its lifecycle.
type InquiryStatusForm struct {
	Status domain.InquiryStatus `json:"status" form:"status"`
}

// Validate accepts the four known statuses.
func (f *InquiryStatusForm) Validate() error {
	if !f.Status.Valid() {
		return fieldError("status", "Status must be one of OPEN, IN_PROGRESS, RESOLVED, CLOSED")
	}
	return nil
}
