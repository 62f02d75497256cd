package http

import (
	"net/http"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
	"github.com/aussiebroadwan/authstate/pkg/authsdk"
	"github.com/aussiebroadwan/authstate/pkg/httpx"
)

// StateHandler godoc
//
//	@Summary		Current authentication state
//	@Description	Decodes the bearer token, if any. A missing, forged or expired token reports the anonymous state, never an error.
//	@Tags			Authentication
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.StateResponse	"authenticated, name, given_name, roles"
//	@Router			/v1/state [get].
func StateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := domain.Anonymous()
		if p, ok := httpx.PrincipalFromContext(r.Context()).(domain.State); ok {
			st = p
		}
		httpx.WriteJSON(w, http.StatusOK, toStateResponse(st))
	}
}

func toStateResponse(st domain.State) authsdk.StateResponse {
	return authsdk.StateResponse{
		Authenticated: st.IsAuthenticated(),
		Name:          st.Name(),
		GivenName:     st.GivenName(),
		Roles:         st.Roles(),
	}
}
