package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/authstate/internal/auth/store"
	"github.com/aussiebroadwan/authstate/internal/metrics"
	"github.com/aussiebroadwan/authstate/pkg/idx"
)

var (
	// ErrNotFound is returned for an unknown connection id.
	ErrNotFound = errors.New("session: not found")

	// ErrInvalidID is returned when a resumed connection id is not a ULID.
	ErrInvalidID = errors.New("session: invalid id")
)

// Registry keeps one Manager per client connection. Every manager's durable
// store is the shared store scoped by its connection id, so a client that
// comes back with the same id finds its token again.
type Registry struct {
	durable    store.SessionStore
	newManager func() *Manager
	logger     *slog.Logger
	now        func() time.Time

	mu       sync.Mutex
	managers map[idx.ID]*Manager
}

// NewRegistry creates a registry. newManager builds a fresh Disconnected
// manager for each opened connection.
func NewRegistry(durable store.SessionStore, newManager func() *Manager, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		durable:    durable,
		newManager: newManager,
		logger:     logger,
		now:        time.Now,
		managers:   make(map[idx.ID]*Manager),
	}
}

// Open starts tracking a connection. An empty resume id mints a new one. A
// resume id that is already open returns the existing manager.
func (r *Registry) Open(resume string) (idx.ID, *Manager, error) {
	id := idx.NewRandom()
	if resume != "" {
		parsed, err := idx.Parse(resume)
		if err != nil {
			return idx.Zero, nil, fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		id = parsed
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.managers[id]; ok {
		m.touch()
		return id, m, nil
	}

	m := r.newManager()
	r.managers[id] = m
	metrics.ActiveSessions.Set(float64(len(r.managers)))
	r.logger.Debug("session opened", slog.String("conn_id", id.String()), slog.Bool("resumed", resume != ""))
	return id, m, nil
}

// Get returns the manager for id and marks it active. The touch happens
// under the registry lock, so a concurrent EvictIdle either removed the
// manager before Get or sees it as fresh.
func (r *Registry) Get(id string) (*Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.managers[idx.ID(id)]
	if !ok {
		return nil, ErrNotFound
	}
	m.touch()
	return m, nil
}

// Connect signals that the connection's durable store is reachable.
func (r *Registry) Connect(ctx context.Context, id string) error {
	m, err := r.Get(id)
	if err != nil {
		return err
	}
	return m.ConnectionEstablished(ctx, r.Scope(id))
}

// Scope returns the durable store view for one connection.
func (r *Registry) Scope(id string) store.SessionStore {
	return store.Scoped(r.durable, id)
}

// Close forgets the connection and removes its token from the durable store.
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	_, ok := r.managers[idx.ID(id)]
	delete(r.managers, idx.ID(id))
	metrics.ActiveSessions.Set(float64(len(r.managers)))
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	if err := r.Scope(id).Delete(ctx, TokenKey); err != nil && !errors.Is(err, store.ErrNotFound) {
		metrics.SessionStoreErrorsTotal.WithLabelValues("delete").Inc()
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// EvictIdle drops managers unused for longer than maxIdle. Their durable
// entries are left alone so the client can resume until the token expires.
func (r *Registry) EvictIdle(_ context.Context, maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)

	evicted := 0
	for id, m := range r.managers {
		if m.LastActive().Before(cutoff) {
			delete(r.managers, id)
			evicted++
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.managers)))
	return evicted
}

// Len reports how many connections are tracked.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.managers)
}
