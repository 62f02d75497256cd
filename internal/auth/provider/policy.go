package provider

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
)

// PolicyProvider is the built-in demonstration policy: the password is the
// username followed by "pw", and the username decides the roles.
//
//	admin    -> admin, subadmin, user
//	subadmin -> subadmin, user
//	anyone   -> user
type PolicyProvider struct{}

func (PolicyProvider) Authenticate(_ context.Context, username, password string) (domain.Roles, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrNotAuthenticated
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(username+"pw")) != 1 {
		return nil, ErrNotAuthenticated
	}

	switch username {
	case domain.RoleAdmin:
		return domain.Roles{domain.RoleAdmin, domain.RoleSubadmin, domain.RoleUser}, nil
	case domain.RoleSubadmin:
		return domain.Roles{domain.RoleSubadmin, domain.RoleUser}, nil
	default:
		return domain.Roles{domain.RoleUser}, nil
	}
}
