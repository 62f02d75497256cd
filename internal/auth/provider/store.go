package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
	"github.com/aussiebroadwan/authstate/internal/auth/store"
	"github.com/aussiebroadwan/authstate/pkg/cryptox"
)

// StoreProvider authenticates against accounts kept in a Users store.
type StoreProvider struct {
	users     store.Users
	pepper    string
	dummyHash string
}

// NewStoreProvider builds a provider over users. Passwords are argon2id
// hashes peppered with pepper.
func NewStoreProvider(users store.Users, pepper string) *StoreProvider {
	// Unknown usernames are verified against this so a miss costs the same
	// as a wrong password.
	dummy, err := cryptox.HashPassword("dummy-password", pepper)
	if err != nil {
		dummy = ""
	}
	return &StoreProvider{users: users, pepper: pepper, dummyHash: dummy}
}

func (p *StoreProvider) Authenticate(ctx context.Context, username, password string) (domain.Roles, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrNotAuthenticated
	}

	u, err := p.users.GetUserByUsername(ctx, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if p.dummyHash != "" {
			_ = cryptox.VerifyPassword(password, p.pepper, p.dummyHash)
		}
		return nil, ErrNotAuthenticated
	case err != nil:
		return nil, fmt.Errorf("provider: load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, p.pepper, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("provider: verify password: %w", err)
	}

	return u.Roles.Clone(), nil
}

// DisplayName returns the user's preferred name, or the username when there
// is none or the lookup fails.
func (p *StoreProvider) DisplayName(ctx context.Context, username string) string {
	u, err := p.users.GetUserByUsername(ctx, username)
	if err != nil || strings.TrimSpace(u.PreferredName) == "" {
		return username
	}
	return u.PreferredName
}
