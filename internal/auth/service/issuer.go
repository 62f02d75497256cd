package service

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
	"github.com/aussiebroadwan/authstate/internal/metrics"
	"github.com/aussiebroadwan/authstate/pkg/jwtx"
)

// TokenIssuer mints identity tokens for authenticated users.
type TokenIssuer struct {
	Signer   jwtx.Signer
	Issuer   string
	Audience string

	// TTL defaults to jwtx.DefaultTokenTTL when zero.
	TTL time.Duration

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// Issue mints a token for the user at the current time.
func (i *TokenIssuer) Issue(username, givenName string, roles domain.Roles) (string, error) {
	now := time.Now
	if i.Now != nil {
		now = i.Now
	}
	return i.IssueAt(username, givenName, roles, now())
}

// IssueAt mints a token as if the current time were now. Two calls with the
// same arguments still produce different tokens because each carries a fresh
// jti.
func (i *TokenIssuer) IssueAt(username, givenName string, roles domain.Roles, now time.Time) (string, error) {
	ttl := i.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultTokenTTL
	}

	claims := jwtx.NewIdentityClaims(username, givenName, roles, ttl, i.Issuer, i.Audience, now)
	token, err := i.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	metrics.TokensIssuedTotal.Inc()
	return token, nil
}
