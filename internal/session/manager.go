package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telecom-ops/admin-console/internal/domain"
	"github.com/telecom-ops/admin-console/internal/events"
	"github.com/telecom-ops/admin-console/internal/observability"
)

// TokenStore is the durable storage holding at most one session token.
// Load returns domain.ErrNoToken when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// AuthAPI is the part of the backend the manager talks to.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResponse, error)
	Profile(ctx context.Context, header http.Header) (*domain.User, error)
}

// Dependencies bundles the collaborators of a Manager. Dispatcher and Metrics
// are optional.
type Dependencies struct {
	Store      TokenStore
	API        AuthAPI
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// Options tunes a Manager.
type Options struct {
	// LoginPath is the entry point announced on logout.
	LoginPath string
	// ProfileTimeout bounds a single profile fetch.
	ProfileTimeout time.Duration
}

const (
	defaultLoginPath      = "/login"
	defaultProfileTimeout = 15 * time.Second
)

// Manager owns the operator session: it is the only writer of the token and
// of the session state. One Manager serves the whole process.
type Manager struct {
	store      TokenStore
	api        AuthAPI
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	opts       Options

	mu          sync.RWMutex
	state       domain.SessionState
	user        *domain.User
	generation  uint64
	expiresAt   *time.Time
	subscribers map[int]chan domain.Snapshot
	nextSubID   int

	startOnce sync.Once
	inflight  sync.WaitGroup
}

// NewManager builds a Manager in the ANONYMOUS state. Call Start once to pick
// up a token left by a previous run.
func NewManager(deps Dependencies, opts Options) *Manager {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if opts.LoginPath == "" {
		opts.LoginPath = defaultLoginPath
	}
	if opts.ProfileTimeout <= 0 {
		opts.ProfileTimeout = defaultProfileTimeout
	}
	return &Manager{
		store:       deps.Store,
		api:         deps.API,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger.Named("session"),
		metrics:     deps.Metrics,
		opts:        opts,
		state:       domain.SessionAnonymous,
		subscribers: make(map[int]chan domain.Snapshot),
	}
}

// LoginPath returns the login entry point.
func (m *Manager) LoginPath() string {
	return m.opts.LoginPath
}

// Start inspects the token store. A stored token makes the session
// AUTHENTICATING and triggers a profile fetch that either completes the
// session or collapses it. Only the first call has an effect.
func (m *Manager) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		token, err := m.store.Load(ctx)
		if errors.Is(err, domain.ErrNoToken) {
			m.logger.Debug("no stored token")
			return
		}
		if err != nil {
			m.logger.Warn("cannot read stored token", zap.Error(err))
			return
		}

		gen, snap, from := m.enterAuthenticating(token)
		m.logger.Info("restored session from stored token", zap.Uint64("generation", gen))
		m.publish(ctx, events.EventSessionRestored, snap, events.TransitionPayload{From: from, To: snap.State})
		m.fetchProfile(gen)
	})
}

// Login authenticates against the backend. On success the token is persisted,
// the session becomes AUTHENTICATING and the profile is fetched in the
// background; Login does not wait for it. Any failure matches
// domain.ErrAuthentication and leaves the session untouched.
func (m *Manager) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResponse, error) {
	resp, err := m.api.Login(ctx, creds)
	if err != nil {
		m.logger.Info("login rejected", zap.String("username", creds.Username), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
	}
	if resp.Token == "" {
		m.logger.Warn("login response carried no token", zap.String("username", creds.Username))
		return nil, fmt.Errorf("%w: empty token in login response", domain.ErrAuthentication)
	}

	m.mu.Lock()
	if err := m.store.Save(ctx, resp.Token); err != nil {
		m.mu.Unlock()
		m.logger.Error("persist token failed", zap.Error(err))
		return nil, fmt.Errorf("%w: persist token: %w", domain.ErrAuthentication, err)
	}
	from := m.state
	m.generation++
	gen := m.generation
	m.state = domain.SessionAuthenticating
	m.user = nil
	m.expiresAt = tokenExpiry(resp.Token)
	snap := m.snapshotLocked()
	m.broadcastLocked(snap)
	m.mu.Unlock()

	m.recordTransition(from, snap.State)
	m.logger.Info("logged in",
		zap.String("username", resp.Username),
		zap.Uint64("generation", gen),
		zap.Int("authorities", len(resp.Authorities)))
	m.publish(ctx, events.EventLoggedIn, snap, events.TransitionPayload{From: from, To: snap.State})

	m.fetchProfile(gen)
	return resp, nil
}

// Logout removes the token, forgets the profile and announces the login
// entry point. Calling it while logged out only re-clears the state. The
// in-memory state is cleared even when the store fails; the store error is
// returned.
func (m *Manager) Logout(ctx context.Context) error {
	_, err := m.logout(ctx, domain.LogoutExplicit, 0, false)
	return err
}

// AuthHeaders returns the headers for an authenticated backend call. It never
// fails: without a token the bearer value is "null" and the backend rejects
// the call. An anonymous session never sends a token, even one the store
// failed to delete.
func (m *Manager) AuthHeaders(ctx context.Context) http.Header {
	if m.State() == domain.SessionAnonymous {
		return BearerHeaders("")
	}
	token, err := m.store.Load(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoToken) {
		m.logger.Warn("cannot read token for headers", zap.Error(err))
	}
	return BearerHeaders(token)
}

// HasRole reports whether the cached profile has role.
func (m *Manager) HasRole(role string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.user.Role == role
}

// IsAdmin reports whether the cached profile is an administrator.
func (m *Manager) IsAdmin() bool {
	return m.HasRole(domain.RoleAdmin)
}

// IsLoggedIn reports whether a session token is held.
func (m *Manager) IsLoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state != domain.SessionAnonymous
}

// CurrentUser returns a copy of the cached profile, or nil.
func (m *Manager) CurrentUser() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyUser(m.user)
}

// State returns the current lifecycle state.
func (m *Manager) State() domain.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Snapshot returns a consistent copy of the session state.
func (m *Manager) Snapshot() domain.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Subscribe returns a channel receiving the current snapshot followed by every
// committed change. A slow reader only ever misses intermediate snapshots,
// never the latest one. cancel closes the channel.
func (m *Manager) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 1)

	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = ch
	ch <- m.snapshotLocked()
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if sub, ok := m.subscribers[id]; ok {
				delete(m.subscribers, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Wait blocks until every in-flight profile fetch has finished.
func (m *Manager) Wait() {
	m.inflight.Wait()
}

func (m *Manager) enterAuthenticating(token string) (uint64, domain.Snapshot, domain.SessionState) {
	m.mu.Lock()
	from := m.state
	m.generation++
	gen := m.generation
	m.state = domain.SessionAuthenticating
	m.user = nil
	m.expiresAt = tokenExpiry(token)
	snap := m.snapshotLocked()
	m.broadcastLocked(snap)
	m.mu.Unlock()

	m.recordTransition(from, snap.State)
	return gen, snap, from
}

func (m *Manager) fetchProfile(gen uint64) {
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		m.loadUserProfile(gen)
	}()
}

// loadUserProfile runs detached from the request that triggered it. Its
// outcome is applied only while gen is still the current generation; any
// failure collapses that generation back to ANONYMOUS.
func (m *Manager) loadUserProfile(gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), m.opts.ProfileTimeout)
	defer cancel()

	log := m.logger.With(zap.Uint64("generation", gen), zap.String("request_id", uuid.NewString()))

	token, err := m.store.Load(ctx)
	if err != nil {
		m.profileFailed(log, gen, err)
		return
	}

	user, err := m.api.Profile(ctx, BearerHeaders(token))
	if err != nil {
		m.profileFailed(log, gen, err)
		return
	}

	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		log.Debug("discarding stale profile")
		return
	}
	from := m.state
	m.state = domain.SessionAuthenticated
	m.user = copyUser(user)
	snap := m.snapshotLocked()
	m.broadcastLocked(snap)
	m.mu.Unlock()

	m.recordTransition(from, snap.State)
	log.Info("profile loaded", zap.String("username", user.Username), zap.String("role", user.Role))
	m.publish(ctx, events.EventProfileLoaded, snap, events.TransitionPayload{From: from, To: snap.State})
}

// profileFailed gets a fresh context: the fetch context may be the one that expired.
func (m *Manager) profileFailed(log *zap.Logger, gen uint64, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.opts.ProfileTimeout)
	defer cancel()

	err := fmt.Errorf("%w: %w", domain.ErrProfileFetch, cause)
	applied, storeErr := m.logout(ctx, domain.LogoutProfileFetchFailed, gen, true)
	if !applied {
		log.Debug("ignoring stale profile failure", zap.Error(err))
		return
	}
	log.Warn("profile fetch failed; session closed", zap.Error(err))
	if storeErr != nil {
		log.Error("clear token after profile failure", zap.Error(storeErr))
	}
}

// logout collapses the session. With guarded set it only acts while gen is
// current and reports whether it did.
func (m *Manager) logout(ctx context.Context, reason domain.LogoutReason, gen uint64, guarded bool) (bool, error) {
	m.mu.Lock()
	if guarded && m.generation != gen {
		m.mu.Unlock()
		return false, nil
	}
	storeErr := m.store.Delete(ctx)
	from := m.state
	m.generation++
	m.state = domain.SessionAnonymous
	m.user = nil
	m.expiresAt = nil
	snap := m.snapshotLocked()
	m.broadcastLocked(snap)
	m.mu.Unlock()

	m.recordTransition(from, snap.State)
	if from != domain.SessionAnonymous {
		m.logger.Info("logged out", zap.String("reason", string(reason)), zap.String("from", string(from)))
	}
	m.publish(ctx, events.EventLoggedOut, snap, events.LoggedOutPayload{
		TransitionPayload: events.TransitionPayload{From: from, To: snap.State},
		Reason:            reason,
		RedirectTo:        m.opts.LoginPath,
	})

	if storeErr != nil {
		return true, fmt.Errorf("delete token: %w", storeErr)
	}
	return true, nil
}

func (m *Manager) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		State:       m.state,
		IsLoggedIn:  m.state != domain.SessionAnonymous,
		CurrentUser: copyUser(m.user),
		Generation:  m.generation,
	}
	if m.expiresAt != nil {
		exp := *m.expiresAt
		snap.TokenExpiresAt = &exp
	}
	return snap
}

// broadcastLocked hands snap to every subscriber, replacing an undelivered
// older snapshot. It must run under m.mu so deliveries follow commit order.
func (m *Manager) broadcastLocked(snap domain.Snapshot) {
	for _, ch := range m.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (m *Manager) recordTransition(from, to domain.SessionState) {
	if from == to {
		return
	}
	m.metrics.RecordTransition(string(from), string(to))
}

func (m *Manager) publish(ctx context.Context, eventType events.EventType, snap domain.Snapshot, payload interface{}) {
	if m.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Snapshot:  snap,
		Payload:   payload,
	}
	if err := m.dispatcher.Publish(ctx, event); err != nil {
		m.logger.Warn("session event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the token
// is opaque to the console, so a non-JWT token simply has no known expiry.
func tokenExpiry(token string) *time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time.UTC()
	return &t
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
