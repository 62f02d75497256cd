package httpx

import (
	"net/http"
	"strings"
)

// RequireAnyRole the caller must be signed in and hold at least one of the
// provided roles. Unauthenticated callers get 401, authenticated callers
// without a matching role get 403.
func RequireAnyRole(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil || !p.IsAuthenticated() {
				writeBearerError(w, TokenFromContext(r.Context()) != "")
				return
			}

			if !p.HasAnyRole(required...) {
				writeBearerRoleError(w, required...)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeBearerRoleError(w http.ResponseWriter, required ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	WriteError(w, http.StatusForbidden, "forbidden", "requires one of: "+strings.Join(required, ", "))
}
