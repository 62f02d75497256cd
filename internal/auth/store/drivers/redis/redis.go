// Package redis provides a SessionStore backed by Redis. Entries carry a TTL
// so a token disappears from the store once it could no longer be valid.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/authstate/internal/auth/store"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key this store writes.
const DefaultKeyPrefix = "authstate:session:"

// Config contains configuration options for the Redis store
type Config struct {
	// Client is the Redis client instance
	Client *redis.Client

	// KeyPrefix is the prefix for all Redis keys
	// Default: "authstate:session:"
	KeyPrefix string

	// TTL applied on every Set. Zero means keys never expire.
	TTL time.Duration
}

// Store implements store.SessionStore using Redis
type Store struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

var (
	_ store.SessionStore = (*Store)(nil)
	_ store.Pinger       = (*Store)(nil)
)

// New creates a new Redis-based store.
func New(config Config) (*Store, error) {
	if config.Client == nil {
		return nil, errors.New("redis client is required")
	}
	if config.TTL < 0 {
		return nil, fmt.Errorf("redis ttl must not be negative, got %s", config.TTL)
	}

	if config.KeyPrefix == "" {
		config.KeyPrefix = DefaultKeyPrefix
	}

	return &Store{
		client:    config.Client,
		keyPrefix: config.KeyPrefix,
		ttl:       config.TTL,
	}, nil
}

func (s *Store) buildKey(key string) string {
	return s.keyPrefix + key
}

// Get retrieves the value for key, store.ErrNotFound if absent or expired.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.buildKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, nil
}

// Set stores value under key with the configured TTL.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.buildKey(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.buildKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection to Redis.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
