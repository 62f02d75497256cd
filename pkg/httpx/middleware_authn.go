package httpx

import (
	"context"
	"net/http"
	"strings"
)

// PrincipalDecoder turns a raw bearer token into a principal. It must never
// fail: an empty, malformed or rejected token decodes to an unauthenticated
// principal.
type PrincipalDecoder func(ctx context.Context, token string) Principal

// AuthnMiddleware decodes the bearer token, if any, and attaches the result
// to the request context. It never rejects a request on its own, routes that
// need a signed-in caller add RequireAuthenticated or RequireAnyRole.
func AuthnMiddleware(decode PrincipalDecoder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw := BearerToken(r)

			ctx = contextWithPrincipal(ctx, decode(ctx, raw), raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
// Anything else yields an empty string.
func BearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuthenticated rejects callers that are not signed in.
func RequireAuthenticated() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil || !p.IsAuthenticated() {
				writeBearerError(w, TokenFromContext(r.Context()) != "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer auth. A request that sent no
// token gets a bare challenge.
func writeBearerError(w http.ResponseWriter, presented bool) {
	if presented {
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	} else {
		w.Header().Set("WWW-Authenticate", `Bearer`)
	}
	WriteError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
}
