// Package session tracks the authentication state of one client connection.
//
// A Manager starts Disconnected and keeps the token in memory. Once the
// client's durable store becomes reachable, ConnectionEstablished moves the
// token into it and the manager stays Connected for the rest of its life.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
	"github.com/aussiebroadwan/authstate/internal/auth/store"
	"github.com/aussiebroadwan/authstate/internal/metrics"
	"github.com/aussiebroadwan/authstate/pkg/slogx"
)

// TokenKey is the durable store key that holds the current token.
const TokenKey = "jwttoken"

var (
	// ErrPersist is returned when the durable store could not be written.
	// The operation had no effect.
	ErrPersist = errors.New("session: persist token")

	// ErrAlreadyConnected is returned by a second ConnectionEstablished.
	ErrAlreadyConnected = errors.New("session: already connected")
)

// Authenticator exchanges a credential for a signed token.
type Authenticator interface {
	Authenticate(ctx context.Context, cred domain.Credential) (string, error)
}

// Decoder turns a token into an authentication state. It never fails, an
// untrusted token decodes to domain.Anonymous().
type Decoder interface {
	Decode(token string) domain.State
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the clock used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager is the authentication state machine for one connection.
type Manager struct {
	auth    Authenticator
	decoder Decoder
	now     func() time.Time

	mu  sync.Mutex
	loc location
	seq uint64 // bumped under mu by every committed login or logout

	// pubMu orders delivery. It is never held together with mu, so a
	// subscriber may read CurrentState.
	pubMu     sync.Mutex
	published uint64

	notify   *notifier
	lastUsed atomic.Int64
}

// NewManager returns a Disconnected manager with no token.
func NewManager(auth Authenticator, decoder Decoder, opts ...Option) *Manager {
	m := &Manager{
		auth:    auth,
		decoder: decoder,
		now:     time.Now,
		loc:     disconnected{},
		notify:  newNotifier(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.touch()
	return m
}

// Location reports whether the manager has been connected to its durable
// store.
func (m *Manager) Location() Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loc.kind()
}

// LastActive is when the manager last served an operation.
func (m *Manager) LastActive() time.Time {
	return time.Unix(0, m.lastUsed.Load())
}

// Subscribe registers fn for published state changes. When changes race,
// a change that was overtaken by a later one is not delivered. fn may read
// CurrentState but must not call Login, Accept or Logout. The returned
// function removes the subscription.
func (m *Manager) Subscribe(fn func(domain.State)) (unsubscribe func()) {
	return m.notify.subscribe(fn)
}

// Login authenticates cred and, on success, stores the new token and
// publishes the resulting state. A rejected credential returns the
// authenticator's error and publishes nothing.
func (m *Manager) Login(ctx context.Context, cred domain.Credential) error {
	m.touch()

	token, err := m.auth.Authenticate(ctx, cred)
	if err != nil {
		return err
	}

	_, err = m.Accept(ctx, token)
	return err
}

// Accept stores a token obtained elsewhere as the current token and
// publishes the state it decodes to.
func (m *Manager) Accept(ctx context.Context, token string) (domain.State, error) {
	m.touch()

	m.mu.Lock()
	switch loc := m.loc.(type) {
	case connected:
		if err := loc.store.Set(ctx, TokenKey, token); err != nil {
			m.mu.Unlock()
			metrics.SessionStoreErrorsTotal.WithLabelValues("set").Inc()
			return domain.Anonymous(), fmt.Errorf("%w: %v", ErrPersist, err)
		}
	case disconnected:
		m.loc = disconnected{pending: token}
	}
	st := m.decoder.Decode(token)
	seq := m.commit()
	where := m.loc.kind()
	m.mu.Unlock()

	slogx.FromContext(ctx).Info("session login", slog.Any("state", st), slog.String("location", where.String()))
	m.publish(seq, st)
	return st, nil
}

// Logout clears the token from wherever it lives and publishes Anonymous.
func (m *Manager) Logout(ctx context.Context) error {
	m.touch()

	m.mu.Lock()
	switch loc := m.loc.(type) {
	case connected:
		if err := loc.store.Delete(ctx, TokenKey); err != nil && !errors.Is(err, store.ErrNotFound) {
			m.mu.Unlock()
			metrics.SessionStoreErrorsTotal.WithLabelValues("delete").Inc()
			return fmt.Errorf("%w: %v", ErrPersist, err)
		}
	case disconnected:
		m.loc = disconnected{}
	}
	seq := m.commit()
	m.mu.Unlock()

	slogx.FromContext(ctx).Info("session logout")
	m.publish(seq, domain.Anonymous())
	return nil
}

// CurrentState decodes the current token. A missing token, an unreadable
// store and an untrusted token all give domain.Anonymous().
func (m *Manager) CurrentState(ctx context.Context) domain.State {
	m.touch()

	m.mu.Lock()
	defer m.mu.Unlock()

	switch loc := m.loc.(type) {
	case connected:
		token, err := loc.store.Get(ctx, TokenKey)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				metrics.SessionStoreErrorsTotal.WithLabelValues("get").Inc()
				slogx.FromContext(ctx).Warn("session store read failed", slog.Any("error", err))
			}
			return domain.Anonymous()
		}
		return m.decoder.Decode(token)
	case disconnected:
		if loc.pending == "" {
			return domain.Anonymous()
		}
		return m.decoder.Decode(loc.pending)
	}
	return domain.Anonymous()
}

// ConnectionEstablished moves the manager to Connected with s as its durable
// store. A pending in-memory token is written to s before the switch, under
// the same lock as every other operation, so no caller ever sees the token
// missing. If that write fails the manager stays Disconnected with its
// pending token and ErrPersist is returned.
func (m *Manager) ConnectionEstablished(ctx context.Context, s store.SessionStore) error {
	m.touch()
	l := slogx.FromContext(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.loc.(disconnected)
	if !ok {
		return ErrAlreadyConnected
	}

	if d.pending == "" {
		m.loc = connected{store: s}
		metrics.SessionMigrationsTotal.WithLabelValues("empty").Inc()
		l.Info("session connected")
		return nil
	}

	if err := s.Set(ctx, TokenKey, d.pending); err != nil {
		metrics.SessionMigrationsTotal.WithLabelValues("failed").Inc()
		metrics.SessionStoreErrorsTotal.WithLabelValues("set").Inc()
		l.Warn("session token migration failed", slog.Any("error", err))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	m.loc = connected{store: s}
	metrics.SessionMigrationsTotal.WithLabelValues("migrated").Inc()
	l.Info("session connected", slog.Bool("migrated", true))
	return nil
}

// commit stamps a state change. Callers hold mu.
func (m *Manager) commit() uint64 {
	m.seq++
	return m.seq
}

// publish delivers st unless a later change has already been delivered, so
// the last event a subscriber sees always matches CurrentState.
func (m *Manager) publish(seq uint64, st domain.State) {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	if seq <= m.published {
		return
	}
	m.published = seq

	label := "anonymous"
	if st.IsAuthenticated() {
		label = "authenticated"
	}
	metrics.StateChangesTotal.WithLabelValues(label).Inc()
	m.notify.publish(st)
}

func (m *Manager) touch() {
	m.lastUsed.Store(m.now().UnixNano())
}
