package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/telecom-ops/admin-console/internal/domain"
)

// SnapshotSource publishes the latest session snapshot.
type SnapshotSource interface {
	Subscribe() (<-chan domain.Snapshot, func())
}

// SessionWatcher logs every committed session state change seen on a
// snapshot subscription.
type SessionWatcher struct {
	source SnapshotSource
	logger *zap.Logger
	done   chan struct{}
	once   sync.Once
}

// NewSessionWatcher creates a watcher over source.
func NewSessionWatcher(source SnapshotSource, logger *zap.Logger) *SessionWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionWatcher{source: source, logger: logger.Named("session_watch"), done: make(chan struct{})}
}

// StartSessionWatchWorker subscribes to source and logs changes until ctx is
// cancelled.
func StartSessionWatchWorker(ctx context.Context, source SnapshotSource, logger *zap.Logger) *SessionWatcher {
	w := NewSessionWatcher(source, logger)
	w.Start(ctx)
	return w
}

// Start subscribes and runs the watch loop in the background. Only the first
// call has an effect.
func (w *SessionWatcher) Start(ctx context.Context) {
	w.once.Do(func() {
		updates, cancel := w.source.Subscribe()
		go w.run(ctx, updates, cancel)
	})
}

// Done is closed once the watch loop has exited.
func (w *SessionWatcher) Done() <-chan struct{} {
	return w.done
}

func (w *SessionWatcher) run(ctx context.Context, updates <-chan domain.Snapshot, cancel func()) {
	defer close(w.done)
	defer cancel()

	var last *domain.Snapshot
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if last != nil && last.State == snap.State && last.Generation == snap.Generation {
				continue
			}
			w.log(snap)
			last = &snap
		}
	}
}

func (w *SessionWatcher) log(snap domain.Snapshot) {
	fields := []zap.Field{
		zap.String("state", string(snap.State)),
		zap.Bool("logged_in", snap.IsLoggedIn),
		zap.Uint64("generation", snap.Generation),
	}
	if snap.CurrentUser != nil {
		fields = append(fields, zap.String("username", snap.CurrentUser.Username))
	}
	if snap.TokenExpiresAt != nil {
		fields = append(fields, zap.Time("token_expires_at", *snap.TokenExpiresAt))
	}
	w.logger.Info("session state", fields...)
}
