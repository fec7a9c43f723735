package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/telecom-ops/admin-console/internal/events"
)

// SessionAuditor writes one audit line per session event.
type SessionAuditor struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSessionAuditor creates the auditor.
func NewSessionAuditor(dispatcher events.Dispatcher, logger *zap.Logger) *SessionAuditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionAuditor{dispatcher: dispatcher, logger: logger.Named("audit")}
}

// RegisterHandlers subscribes to session events.
func (a *SessionAuditor) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLoggedIn, a.handleTransition)
	a.dispatcher.Subscribe(events.EventSessionRestored, a.handleTransition)
	a.dispatcher.Subscribe(events.EventProfileLoaded, a.handleTransition)
	a.dispatcher.Subscribe(events.EventLoggedOut, a.handleLoggedOut)
}

// StartSessionAuditWorker registers the audit handlers on dispatcher.
func StartSessionAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) *SessionAuditor {
	auditor := NewSessionAuditor(dispatcher, logger)
	auditor.RegisterHandlers()
	return auditor
}

func (a *SessionAuditor) handleTransition(_ context.Context, event events.Event) error {
	fields := a.baseFields(event)
	if p, ok := event.Payload.(events.TransitionPayload); ok {
		fields = append(fields, zap.String("from", string(p.From)), zap.String("to", string(p.To)))
	}
	a.logger.Info("session event", fields...)
	return nil
}

func (a *SessionAuditor) handleLoggedOut(_ context.Context, event events.Event) error {
	p, ok := event.Payload.(events.LoggedOutPayload)
	if ok && p.From == p.To {
		// Logout while already anonymous.
		return nil
	}
	fields := a.baseFields(event)
	if ok {
		fields = append(fields,
			zap.String("from", string(p.From)),
			zap.String("to", string(p.To)),
			zap.String("reason", string(p.Reason)),
			zap.String("redirect_to", p.RedirectTo))
	}
	a.logger.Info("session event", fields...)
	return nil
}

func (a *SessionAuditor) baseFields(event events.Event) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event", string(event.Type)),
		zap.Time("at", event.Timestamp),
		zap.Uint64("generation", event.Snapshot.Generation),
	}
	if user := event.Snapshot.CurrentUser; user != nil {
		fields = append(fields, zap.String("username", user.Username))
	}
	return fields
}
