package jwtx

import (
	"time"

	"github.com/aussiebroadwan/authstate/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTokenTTL is how long an identity token stays valid after login.
	DefaultTokenTTL = 45 * time.Minute

	// DefaultLeeway is the clock skew tolerated on both ends of the
	// validity window.
	DefaultLeeway = 5 * time.Second
)

// Claims are the identity-token claims. The registered part carries the
// token id (jti), subject, issuer, audience and lifetime; the rest is the
// identity the UI cares about.
type Claims struct {
	jwt.RegisteredClaims

	// Name is the login name of the user, always equal to the subject.
	Name string `json:"name"`

	// GivenName is the display name shown by the UI.
	GivenName string `json:"given_name"`

	// Roles is one entry per role granted at login. An empty array is a
	// valid identity with no roles, so it is never omitted.
	Roles []string `json:"roles"`
}

// NewIdentityClaims builds the claim set for a freshly authenticated user.
// Every call mints a new jti even for the same user and time.
func NewIdentityClaims(
	username, givenName string,
	roles []string,
	ttl time.Duration,
	issuer, audience string,
	now time.Time,
) Claims {
	frozen := make([]string, len(roles))
	copy(frozen, roles)

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.NewAt(now).String(),
		},
		Name:      username,
		GivenName: givenName,
		Roles:     frozen,
	}
}

// ValidateIssuer checks the issuer matches exactly.
func (c *Claims) ValidateIssuer(expected string) error {
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks the token was minted for exactly one audience and
// that it is the expected one. There is no multi-audience support.
func (c *Claims) ValidateAudience(expected string) error {
	if len(c.Audience) != 1 || c.Audience[0] != expected {
		return ErrAudience
	}
	return nil
}

// ValidateShape ensures the claims every identity token must carry are
// present.
func (c *Claims) ValidateShape() error {
	if c.ID == "" || c.Name == "" || c.Subject != c.Name {
		return ErrInvalidClaim
	}
	if c.IssuedAt == nil || c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	return nil
}

// ValidateLifetimeAt checks now falls inside [iat, exp] (and after nbf when
// present), widening both ends by leeway for clock skew.
func (c *Claims) ValidateLifetimeAt(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt == nil || c.IssuedAt == nil {
		return ErrInvalidClaim
	}

	if now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if now.Before(c.IssuedAt.Add(-leeway)) {
		return ErrNotYetValid
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
