package domain

import "errors"

var (
	// ErrAuthentication is returned when the backend rejects a login attempt.
	ErrAuthentication = errors.New("authentication failed")
	// ErrProfileFetch marks a failed profile load; it always collapses the session.
	ErrProfileFetch = errors.New("profile fetch failed")
	// ErrTransport is returned for failed authenticated calls outside the session core.
	ErrTransport = errors.New("transport error")
	// ErrNoToken is returned by token stores when no token is persisted.
	ErrNoToken = errors.New("no session token")
)

// Credentials is the login form payload. It is never persisted.
type Credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Complete reports whether both fields are present.
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// Authority is a granted authority as reported by the backend.
type Authority struct {
	Authority string `json:"authority"`
}

// LoginResponse is the backend reply to POST /auth/login.
type LoginResponse struct {
	Token       string      `json:"token"`
	Type        string      `json:"type"`
	Message     string      `json:"message"`
	Username    string      `json:"username"`
	Authorities []Authority `json:"authorities"`
}
