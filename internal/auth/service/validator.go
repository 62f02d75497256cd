package service

import (
	"log/slog"
	"time"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
	"github.com/aussiebroadwan/authstate/internal/metrics"
	"github.com/aussiebroadwan/authstate/pkg/cryptox"
	"github.com/aussiebroadwan/authstate/pkg/jwtx"
)

// TokenValidator turns a presented token into an authentication state. It
// fails closed: anything it cannot fully trust decodes to domain.Anonymous().
type TokenValidator struct {
	Verifier jwtx.Verifier
	Logger   *slog.Logger
}

// Decode validates token against the verifier's clock.
func (v *TokenValidator) Decode(token string) domain.State {
	if token == "" {
		metrics.TokenDecodeTotal.WithLabelValues("absent").Inc()
		return domain.Anonymous()
	}
	claims, err := v.Verifier.Verify(token)
	return v.stateFrom(token, claims, err)
}

// DecodeAt validates token as if the current time were now.
func (v *TokenValidator) DecodeAt(token string, now time.Time) domain.State {
	if token == "" {
		metrics.TokenDecodeTotal.WithLabelValues("absent").Inc()
		return domain.Anonymous()
	}
	claims, err := v.Verifier.VerifyAt(token, now)
	return v.stateFrom(token, claims, err)
}

func (v *TokenValidator) stateFrom(token string, claims jwtx.Claims, err error) domain.State {
	reason := jwtx.Reason(err)
	metrics.TokenDecodeTotal.WithLabelValues(reason).Inc()

	if err != nil {
		v.logger().Debug("token rejected",
			slog.String("reason", reason),
			slog.String("fingerprint", cryptox.FingerprintToken(token)),
		)
		return domain.Anonymous()
	}

	return domain.Identified(claims.Name, claims.GivenName, claims.Roles)
}

func (v *TokenValidator) logger() *slog.Logger {
	if v.Logger == nil {
		return slog.Default()
	}
	return v.Logger
}
