package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/aussiebroadwan/authstate/pkg/httpx"
	"github.com/stretchr/testify/require"
)

type fakePrincipal struct {
	authenticated bool
	roles         []string
}

func (p fakePrincipal) IsAuthenticated() bool { return p.authenticated }

func (p fakePrincipal) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(p.roles, r) {
			return true
		}
	}
	return false
}

// decodeFake maps "admin" and "user" tokens to principals, anything else is
// anonymous.
func decodeFake(_ context.Context, token string) httpx.Principal {
	switch token {
	case "admin":
		return fakePrincipal{authenticated: true, roles: []string{"admin"}}
	case "user":
		return fakePrincipal{authenticated: true}
	default:
		return fakePrincipal{}
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mark("a"), mark("b"), mark("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer   abc  ", "abc"},
		{"Basic Zm9vOmJhcg==", ""},
		{"Bearer", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		require.Equal(t, tt.want, httpx.BearerToken(req), "header %q", tt.header)
	}
}

func TestRoleGating(t *testing.T) {
	h := httpx.Chain(okHandler,
		httpx.AuthnMiddleware(decodeFake),
		httpx.RequireAnyRole("admin", "subadmin"),
	)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantChal   string
	}{
		{"no token", "", http.StatusUnauthorized, "Bearer"},
		{"bad token", "garbage", http.StatusUnauthorized, `Bearer error="invalid_token"`},
		{"missing role", "user", http.StatusForbidden, `Bearer error="insufficient_scope"`},
		{"has role", "admin", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/counter", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.True(t, strings.HasPrefix(rec.Header().Get("WWW-Authenticate"), tt.wantChal))
		})
	}
}

func TestRequireAuthenticated(t *testing.T) {
	h := httpx.Chain(okHandler,
		httpx.AuthnMiddleware(decodeFake),
		httpx.RequireAuthenticated(),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer user")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteJSONSetsNoCache(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteError(rec, http.StatusBadRequest, "invalid_request", "bad body")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"error":"invalid_request","error_description":"bad body"}`, rec.Body.String())
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var body struct {
		Username string `json:"username"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"fred","admin":true}`))
	require.Error(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &body))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"fred"}`))
	require.NoError(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &body))
	require.Equal(t, "fred", body.Username)
}
