package dto

import (
	"time"

	"github.com/telecom-ops/admin-console/internal/domain"
)

// LoginRequest is the login form, accepted as JSON or urlencoded.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Credentials converts the form into backend credentials.
func (r LoginRequest) Credentials() domain.Credentials {
	return domain.Credentials{Username: r.Username, Password: r.Password}
}

// MessageResponse is the success body of console actions.
type MessageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// SessionResponse describes the operator session to the views.
type SessionResponse struct {
	State          domain.SessionState `json:"state"`
	IsLoggedIn     bool                `json:"isLoggedIn"`
	IsAdmin        bool                `json:"isAdmin"`
	CurrentUser    *domain.User        `json:"currentUser"`
	TokenExpiresAt *time.Time          `json:"tokenExpiresAt,omitempty"`
}

// NewSessionResponse builds the response from a snapshot.
func NewSessionResponse(snap domain.Snapshot) SessionResponse {
	return SessionResponse{
		State:          snap.State,
		IsLoggedIn:     snap.IsLoggedIn,
		IsAdmin:        snap.CurrentUser != nil && snap.CurrentUser.Role == domain.RoleAdmin,
		CurrentUser:    snap.CurrentUser,
		TokenExpiresAt: snap.TokenExpiresAt,
	}
}
