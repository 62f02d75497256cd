package app

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aussiebroadwan/authstate/internal/auth/service"
	"github.com/aussiebroadwan/authstate/pkg/jwtx"
)

// ErrMissingSigningKey is returned when neither AUTH_SIGNING_KEY nor
// AUTH_SIGNING_KEY_FILE provides a secret.
var ErrMissingSigningKey = errors.New("signing key is not configured")

// LoadSigningKey returns the shared HMAC secret. The environment value wins
// over the file. Surrounding whitespace in the file is ignored.
func LoadSigningKey(cfg Config) ([]byte, error) {
	if cfg.SigningKey != "" {
		return []byte(cfg.SigningKey), nil
	}
	if cfg.SigningKeyFile == "" {
		return nil, ErrMissingSigningKey
	}

	raw, err := os.ReadFile(cfg.SigningKeyFile)
	if err != nil {
		return nil, fmt.Errorf("read signing key file: %w", err)
	}
	key := bytes.TrimSpace(raw)
	if len(key) == 0 {
		return nil, ErrMissingSigningKey
	}
	return key, nil
}

// InitTokens builds the issuer and validator around one signing key. A
// missing or short key fails here so the service never starts without one.
func InitTokens(cfg Config, logger *slog.Logger) (*jwtx.HS512Signer, *service.TokenIssuer, *service.TokenValidator, error) {
	key, err := LoadSigningKey(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	signer, err := jwtx.NewSignerHS512(key)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("signing key: %w", err)
	}
	verifier, err := jwtx.NewVerifierHS512(key, jwtx.VerifyOptions{
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		Leeway:   cfg.ClockSkew,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("signing key: %w", err)
	}
	clear(key)

	logger.Info("signing key loaded",
		"algorithm", signer.Alg(),
		"issuer", cfg.Issuer,
		"audience", cfg.Audience,
		"ttl", cfg.TokenTTL,
	)

	issuer := &service.TokenIssuer{
		Signer:   signer,
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		TTL:      cfg.TokenTTL,
	}
	validator := &service.TokenValidator{Verifier: verifier, Logger: logger}

	return signer, issuer, validator, nil
}
