package events

import (
	"time"

	"github.com/telecom-ops/admin-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoggedIn        EventType = "session_logged_in"
	EventSessionRestored EventType = "session_restored"
	EventProfileLoaded   EventType = "session_profile_loaded"
	EventLoggedOut       EventType = "session_logged_out"
)

// Event represents a session event emitted by the session manager.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Snapshot  domain.Snapshot `json:"snapshot"`
	Payload   interface{}     `json:"payload"`
}

// TransitionPayload describes a state change.
type TransitionPayload struct {
	From domain.SessionState `json:"from"`
	To   domain.SessionState `json:"to"`
}

// LoggedOutPayload describes why the session ended and where the operator is sent.
type LoggedOutPayload struct {
	TransitionPayload
	Reason     domain.LogoutReason `json:"reason"`
	RedirectTo string              `json:"redirect_to"`
}
