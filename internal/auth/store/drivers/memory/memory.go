// Package memory provides an in-process SessionStore. Values are lost when
// the process exits.
package memory

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/authstate/internal/auth/store"
)

type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

var (
	_ store.SessionStore = (*Store)(nil)
	_ store.Pinger       = (*Store)(nil)
)

func New() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Delete is idempotent, deleting an absent key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

// Len reports how many keys are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
