package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
	"github.com/aussiebroadwan/authstate/internal/auth/store"
)

// ErrNotAuthenticated is returned when a credential pair is rejected. It
// never says which field was wrong.
var ErrNotAuthenticated = errors.New("provider: not authenticated")

// RoleProvider checks a username and password and returns the roles granted
// to that user. A nil error with an empty role set is a valid login.
type RoleProvider interface {
	Authenticate(ctx context.Context, username, password string) (domain.Roles, error)
}

// DisplayNamer is implemented by providers that know a friendlier name for
// the user than the login name.
type DisplayNamer interface {
	DisplayName(ctx context.Context, username string) string
}

// ProviderFunc adapts a plain function to RoleProvider.
type ProviderFunc func(ctx context.Context, username, password string) (domain.Roles, error)

func (f ProviderFunc) Authenticate(ctx context.Context, username, password string) (domain.Roles, error) {
	return f(ctx, username, password)
}

// Provider kinds accepted by New.
const (
	KindPolicy = "policy"
	KindSQLite = "sqlite"
)

// New returns the provider named by kind. users and pepper are only needed
// for the sqlite kind.
func New(kind string, users store.Users, pepper string) (RoleProvider, error) {
	switch kind {
	case "", KindPolicy:
		return PolicyProvider{}, nil
	case KindSQLite:
		if users == nil {
			return nil, fmt.Errorf("provider: %s needs a user store", kind)
		}
		return NewStoreProvider(users, pepper), nil
	default:
		return nil, fmt.Errorf("provider: unknown kind %q", kind)
	}
}
