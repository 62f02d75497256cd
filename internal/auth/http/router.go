package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
	"github.com/aussiebroadwan/authstate/internal/auth/service"
	"github.com/aussiebroadwan/authstate/internal/auth/session"
	"github.com/aussiebroadwan/authstate/internal/auth/store"
	"github.com/aussiebroadwan/authstate/internal/metrics"
	"github.com/aussiebroadwan/authstate/pkg/httpx"
	"github.com/aussiebroadwan/authstate/pkg/jwtx"
	"github.com/aussiebroadwan/authstate/pkg/slogx"

	_ "github.com/aussiebroadwan/authstate/api/authstate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       jwtx.Signer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	sessions store.SessionStore
	users    store.Store // nil with the policy provider

	AuthService *service.AuthenticationService
	Validator   *service.TokenValidator
	Registry    *session.Registry
}

func NewRouter(
	signer jwtx.Signer,
	buildVersion string,
	sessions store.SessionStore,
	users store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		sessions:     sessions,
		users:        users,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerLogin()
	r.registerSessions()
	r.registerResources()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			AuthState Service API
//	@version		0.1.0
//	@description	Password login issuing HS512 identity tokens, and per-connection authentication state with a durable store.
//	@description
//	@description				Tokens expire 45 minutes after issue. An invalid token always reads as the anonymous state.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/authstate
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Identity token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// counted reports rejections of a rate limit profile to prometheus.
func counted(cfg httpx.RateLimitConfig) httpx.RateLimitConfig {
	cfg.OnReject = func(profile string) {
		metrics.RateLimitedTotal.WithLabelValues(profile).Inc()
	}
	return cfg
}

func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(func(_ context.Context, token string) httpx.Principal {
		return r.Validator.Decode(token)
	})
}

func (r *Router) registerLogin() {
	// POST /login - strict rate limit (authentication attempts)
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(counted(httpx.StrictLimit)),
		),
	)

	// GET /state - never rejects, anonymous when the token is bad
	r.Mux.Handle("GET /v1/state",
		httpx.Chain(StateHandler(),
			r.authn(),
			httpx.RateLimitByIP(counted(httpx.LenientLimit)),
		),
	)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{Registry: r.Registry}

	r.Mux.Handle("POST /v1/sessions",
		httpx.Chain(http.HandlerFunc(h.HandleOpen),
			httpx.RateLimitByIP(counted(httpx.LenientLimit)),
		),
	)

	// Session login is a credential check, limited per IP and session
	r.Mux.Handle("POST /v1/sessions/{id}/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndPathValue(counted(httpx.StrictLimit), "id"),
		),
	)

	lenient := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RateLimitByIPAndPathValue(counted(httpx.LenientLimit), "id"))
	}

	r.Mux.Handle("POST /v1/sessions/{id}/connect", lenient(h.HandleConnect))
	r.Mux.Handle("POST /v1/sessions/{id}/logout", lenient(h.HandleLogout))
	r.Mux.Handle("GET /v1/sessions/{id}/state", lenient(h.HandleState))
	r.Mux.Handle("GET /v1/sessions/{id}/events", lenient(h.HandleEvents))
	r.Mux.Handle("DELETE /v1/sessions/{id}", lenient(h.HandleClose))
}

func (r *Router) registerResources() {
	r.Mux.Handle("GET /v1/counter",
		httpx.Chain(&CounterHandler{},
			r.authn(),
			httpx.RequireAnyRole(domain.RoleAdmin, domain.RoleSubadmin),
			httpx.RateLimitByIP(counted(httpx.LenientLimit)),
		),
	)

	r.Mux.Handle("GET /v1/weather",
		httpx.Chain(WeatherHandler(time.Now),
			r.authn(),
			httpx.RequireAnyRole(domain.RoleAdmin),
			httpx.RateLimitByIP(counted(httpx.LenientLimit)),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(counted(httpx.LenientLimit)),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.sessions, r.users, r.signer),
			httpx.RateLimitByIP(counted(httpx.LenientLimit)),
		),
	)
	r.Mux.Handle("GET /metrics",
		httpx.Chain(metrics.Handler(),
			httpx.RateLimitByIP(counted(httpx.PublicLimit)),
		),
	)
}
