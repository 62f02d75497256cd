package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/authstate/internal/auth/store"
	"github.com/aussiebroadwan/authstate/pkg/authsdk"
	"github.com/aussiebroadwan/authstate/pkg/httpx"
	"github.com/aussiebroadwan/authstate/pkg/jwtx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the session store, user store and signer
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	sessions store.SessionStore,
	users store.Store,
	signer jwtx.Signer,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			SessionStore: "ok",
			Users:        "disabled",
			Signer:       "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		degrade := func(field *string, msg string) {
			*field = "error: " + msg
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if p, ok := sessions.(store.Pinger); ok {
			if err := p.Ping(r.Context()); err != nil {
				degrade(&checks.SessionStore, err.Error())
			}
		}

		if users != nil {
			checks.Users = "ok"
			if err := users.Ping(r.Context()); err != nil {
				degrade(&checks.Users, err.Error())
			}
		}

		if signer == nil {
			degrade(&checks.Signer, "no signing key loaded")
		}

		httpx.WriteJSON(w, statusCode, authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
