package jwtx

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeySize is the shortest shared secret we accept, in bytes (256 bits).
const MinKeySize = 32

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// HS512Signer signs identity tokens with HMAC-SHA512 over one shared secret.
type HS512Signer struct {
	key []byte
}

// NewSignerHS512 creates a signer from the raw shared secret. The key is
// copied so callers can wipe their buffer.
func NewSignerHS512(key []byte) (*HS512Signer, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	return &HS512Signer{key: append([]byte(nil), key...)}, nil
}

func (s *HS512Signer) Alg() string { return jwt.SigningMethodHS512.Alg() }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS512Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := t.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// String keeps the key out of fmt and slog output.
func (s *HS512Signer) String() string { return "HS512Signer{key:redacted}" }

func checkKey(key []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	if len(key) < MinKeySize {
		return ErrWeakKey
	}
	return nil
}
