package domain

import "time"

// SessionState is the position of the operator session in its lifecycle.
type SessionState string

const (
	// SessionAnonymous means no token is held.
	SessionAnonymous SessionState = "ANONYMOUS"
	// SessionAuthenticating means a token is held but the profile is not loaded yet.
	SessionAuthenticating SessionState = "AUTHENTICATING"
	// SessionAuthenticated means both token and profile are present.
	SessionAuthenticated SessionState = "AUTHENTICATED"
)

// LogoutReason explains why a session returned to ANONYMOUS.
type LogoutReason string

const (
	LogoutExplicit           LogoutReason = "explicit"
	LogoutProfileFetchFailed LogoutReason = "profile_fetch_failed"
)

// Snapshot is an immutable copy of the session state handed to readers.
type Snapshot struct {
	State          SessionState `json:"state"`
	IsLoggedIn     bool         `json:"isLoggedIn"`
	CurrentUser    *User        `json:"currentUser,omitempty"`
	Generation     uint64       `json:"generation"`
	TokenExpiresAt *time.Time   `json:"tokenExpiresAt,omitempty"`
}
