package store

import "context"

type scoped struct {
	inner  SessionStore
	prefix string
}

// Scoped returns a view of s where every key lives under namespace, so many
// clients can share one backing store without seeing each other's keys.
func Scoped(s SessionStore, namespace string) SessionStore {
	return &scoped{inner: s, prefix: namespace + ":"}
}

func (s *scoped) Get(ctx context.Context, key string) (string, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}
