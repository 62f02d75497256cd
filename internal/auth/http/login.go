package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
	"github.com/aussiebroadwan/authstate/internal/auth/service"
	"github.com/aussiebroadwan/authstate/pkg/authsdk"
	"github.com/aussiebroadwan/authstate/pkg/httpx"
	"github.com/aussiebroadwan/authstate/pkg/slogx"
)

// LoginHandler serves POST /v1/login.
type LoginHandler struct {
	AuthService *service.AuthenticationService
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Exchanges a username and password for a signed identity token (HS512, 45 minute lifetime).
//	@Description	Every rejection carries the same message, whichever field was wrong.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse	"success, token"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	authsdk.LoginResponse	"success=false, error"
//	@Failure		429		{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Header			200		{string}	Cache-Control			"no-store"
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req *authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req == nil {
		authsdk.WriteLoginFailure(w)
		return
	}

	token, err := h.AuthService.Authenticate(ctx, domain.Credential{
		Username: req.Username,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.WriteLoginFailure(w)
		return
	case err != nil:
		slogx.FromContext(ctx).Error("login failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Success: true,
		Token:   token,
	})
}
