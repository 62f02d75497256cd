package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "authstate"

var (
	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts, labeled by outcome (success, rejected, error).",
		},
		[]string{"outcome"},
	)

	TokensIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Total number of identity tokens issued.",
		},
	)

	TokenDecodeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_decode_total",
			Help:      "Total number of token decodes, labeled by result (ok or the rejection reason).",
		},
		[]string{"result"},
	)

	StateChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_changes_total",
			Help:      "Total number of published authentication state changes.",
		},
		[]string{"state"},
	)

	SessionMigrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_migrations_total",
			Help:      "Connection-established transitions, labeled by outcome (migrated, empty, failed).",
		},
		[]string{"outcome"},
	)

	SessionStoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_store_errors_total",
			Help:      "Durable session store failures, labeled by operation.",
		},
		[]string{"op"},
	)

	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected with 429, labeled by rate limit profile.",
		},
		[]string{"profile"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of open per-connection session managers.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		LoginAttemptsTotal,
		TokensIssuedTotal,
		TokenDecodeTotal,
		StateChangesTotal,
		SessionMigrationsTotal,
		SessionStoreErrorsTotal,
		RateLimitedTotal,
		ActiveSessions,
	)
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
