package jwtx

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
	VerifyAt(token string, now time.Time) (Claims, error)
}

// VerifyOptions captures the expectations a token must meet.
type VerifyOptions struct {
	// Issuer the token must carry, compared exactly.
	Issuer string

	// Audience the token must carry as its only audience.
	Audience string

	// Leeway allows small clock skew when validating iat/nbf/exp.
	Leeway time.Duration

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

var (
	ErrEmptyKey = errors.New("jwtx: signing key is empty")
	ErrWeakKey  = errors.New("jwtx: signing key shorter than 256 bits")

	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrInvalidType = errors.New("jwtx: unexpected token type")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// HS512Verifier validates identity tokens signed with the shared secret.
type HS512Verifier struct {
	key    []byte
	opts   VerifyOptions
	parser *jwt.Parser
}

// NewVerifierHS512 creates a verifier for the given secret and expectations.
func NewVerifierHS512(key []byte, opts VerifyOptions) (*HS512Verifier, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	// Time based checks are done by Claims against our own clock, the parser
	// only handles structure, algorithm and signature. Strict decoding rejects
	// segments whose final character carries non-zero padding bits, otherwise
	// several spellings of one signature would all verify.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithoutClaimsValidation(),
		jwt.WithStrictDecoding(),
	)

	return &HS512Verifier{
		key:    append([]byte(nil), key...),
		opts:   opts,
		parser: parser,
	}, nil
}

// Verify validates the token against the configured clock.
func (v *HS512Verifier) Verify(tokenStr string) (Claims, error) {
	return v.VerifyAt(tokenStr, v.opts.Now())
}

// VerifyAt validates the token as if the current time were now.
func (v *HS512Verifier) VerifyAt(tokenStr string, now time.Time) (Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		if typ, ok := t.Header["typ"].(string); !ok || typ != "JWT" {
			return nil, ErrInvalidType
		}
		return v.key, nil
	})
	if err != nil {
		return Claims{}, mapParseError(tokenStr, err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidSig
	}

	// Now check all the claim requirements
	if err := claims.ValidateShape(); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateLifetimeAt(now, v.opts.Leeway); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

func mapParseError(tokenStr string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed) && !canonicalSignature(tokenStr):
		return ErrInvalidSig
	case errors.Is(err, ErrInvalidType):
		return ErrInvalidType
	case errors.Is(err, ErrAlgMismatch), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

// canonicalSignature reports whether the third segment is strict base64url.
// Tokens with the wrong number of segments are left to the parser's verdict.
func canonicalSignature(tokenStr string) bool {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return true
	}
	_, err := base64.RawURLEncoding.Strict().DecodeString(parts[2])
	return err == nil
}

// Reason maps a verification error to a short label for logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidSig):
		return "signature"
	case errors.Is(err, ErrAlgMismatch), errors.Is(err, ErrInvalidType):
		return "algorithm"
	case errors.Is(err, ErrIssuer):
		return "issuer"
	case errors.Is(err, ErrAudience):
		return "audience"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrNotYetValid):
		return "not_yet_valid"
	case errors.Is(err, ErrInvalidClaim):
		return "claims"
	default:
		return "malformed"
	}
}
