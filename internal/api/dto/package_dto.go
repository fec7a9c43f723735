package dto

import (
	"strings"

	"github.com/telecom-ops/admin-console/internal/domain"
	apperrors "github.com/telecom-ops/admin-console/pkg/util"
)

// PackageForm is the create/edit package form.
type PackageForm struct {
	Name         string  `json:"name" form:"name"`
	Description  string  `json:"description" form:"description"`
	Price        float64 `json:"price" form:"price"`
	DataLimitGB  int     `json:"dataLimitGB" form:"dataLimitGB"`
	VoiceMinutes int     `json:"voiceMinutes" form:"voiceMinutes"`
	SMSCount     int     `json:"smsCount" form:"smsCount"`
	PackageType  string  `json:"packageType" form:"packageType"`
}

// Validate checks the catalogue form: quotas may be zero.
func (f *PackageForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)

	switch {
	case f.Name == "":
		return fieldError("name", "Package name is required")
	case f.Description == "":
		return fieldError("description", "Description is required")
	case f.Price <= 0:
		return fieldError("price", "Price must be greater than 0")
	case f.DataLimitGB < 0:
		return fieldError("dataLimitGB", "Data limit cannot be negative")
	case f.VoiceMinutes < 0:
		return fieldError("voiceMinutes", "Voice minutes cannot be negative")
	case f.SMSCount < 0:
		return fieldError("smsCount", "SMS count cannot be negative")
	}
	return validPackageType(f.PackageType)
}

// ValidateForUser checks the per-user package form, where every value must
// be positive. Name may be empty; the backend then generates one.
func (f *PackageForm) ValidateForUser() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)

	if f.Description == "" || f.Price <= 0 || f.DataLimitGB <= 0 || f.VoiceMinutes <= 0 || f.SMSCount <= 0 {
		return apperrors.NewValidationError("Please fill in all required fields with valid values", nil)
	}
	return validPackageType(f.PackageType)
}

// Request converts the form into the backend payload.
func (f PackageForm) Request() domain.PackageRequest {
	return domain.PackageRequest{
		Name:         f.Name,
		Description:  f.Description,
		Price:        f.Price,
		DataLimitGB:  f.DataLimitGB,
		VoiceMinutes: f.VoiceMinutes,
		SMSCount:     f.SMSCount,
		PackageType:  f.PackageType,
	}
}

func validPackageType(t string) error {
	switch t {
	case "", domain.PackageTypePrepaid, domain.PackageTypePostpaid:
		return nil
	}
	return fieldError("packageType", "Package type must be PREPAID or POSTPAID")
}
