package dto

import (
	"net/mail"
	"strings"

	"github.com/telecom-ops/admin-console/internal/domain"
	apperrors "github.com/telecom-ops/admin-console/pkg/util"
)

// UserForm is the create/edit user form.
type UserForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Email    string `json:"email" form:"email"`
	FullName string `json:"fullName" form:"fullName"`
	Role     string `json:"role" form:"role"`
}

// Validate checks the form; a password is only required when creating.
func (f *UserForm) Validate(creating bool) error {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.FullName = strings.TrimSpace(f.FullName)

	switch {
	case f.Username == "":
		return fieldError("username", "Username is required")
	case creating && f.Password == "":
		return fieldError("password", "Password is required for new users")
	case f.Email == "":
		return fieldError("email", "Email is required")
	case f.FullName == "":
		return fieldError("fullName", "Full name is required")
	case !validEmail(f.Email):
		return fieldError("email", "Please enter a valid email address")
	}
	if f.Role == "" {
		f.Role = domain.RoleUser
	}
	if f.Role != domain.RoleUser && f.Role != domain.RoleAdmin {
		return fieldError("role", "Role must be USER or ADMIN")
	}
	return nil
}

// Request converts the form into the backend payload.
func (f UserForm) Request() domain.UserRequest {
	return domain.UserRequest{
		Username: f.Username,
		Password: f.Password,
		Email:    f.Email,
		FullName: f.FullName,
		Role:     f.Role,
	}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@"):], ".")
}

func fieldError(field, message string) error {
	return apperrors.NewValidationError(message, map[string]any{"field": field})
}
