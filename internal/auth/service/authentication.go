package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
	"github.com/aussiebroadwan/authstate/internal/auth/provider"
	"github.com/aussiebroadwan/authstate/internal/metrics"
	"github.com/aussiebroadwan/authstate/pkg/slogx"
)

// ErrInvalidCredentials is the only rejection a caller ever sees. It does not
// say whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid_credentials")

// AuthenticationService exchanges a credential for a signed identity token.
type AuthenticationService struct {
	Provider provider.RoleProvider
	Issuer   *TokenIssuer
}

// Authenticate checks cred with the role provider and, on success, returns a
// freshly issued token. Provider failures other than a rejection are returned
// wrapped so the caller can tell an outage from a bad password.
func (s *AuthenticationService) Authenticate(ctx context.Context, cred domain.Credential) (string, error) {
	l := slogx.FromContext(ctx)

	if cred.Blank() {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return "", ErrInvalidCredentials
	}

	roles, err := s.Provider.Authenticate(ctx, cred.Username, cred.Password)
	if err != nil {
		if errors.Is(err, provider.ErrNotAuthenticated) {
			metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
			l.Info("login rejected", slog.Any("credential", cred))
			return "", ErrInvalidCredentials
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("authenticate: %w", err)
	}

	givenName := cred.Username
	if namer, ok := s.Provider.(provider.DisplayNamer); ok {
		givenName = namer.DisplayName(ctx, cred.Username)
	}

	token, err := s.Issuer.Issue(cred.Username, givenName, roles)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	l.Info("login succeeded", slog.Any("credential", cred), slog.Any("roles", []string(roles)))
	return token, nil
}
