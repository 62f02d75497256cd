package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// SessionStore is the durable per-client key/value store the session manager
// keeps its token in once the client is connected. Get returns ErrNotFound
// for an absent key.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is the root data access interface for account data. Concrete drivers
// implement this and expose sub-repositories to keep concerns tidy.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is the subset of Store available inside a transaction.
type Tx interface {
	Users() Users
}

type Users interface {
	// GetUserByUsername is used during login. Roles are loaded too.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID) together
	// with its roles. ErrAlreadyExists if the username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// SetUserRoles replaces the user's roles, keeping the given order.
	SetUserRoles(ctx context.Context, userID string, roles domain.Roles) error

	// ListUserRoles returns the user's roles in grant order.
	ListUserRoles(ctx context.Context, userID string) (domain.Roles, error)

	// DeleteUser cascades to the user's roles.
	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}
