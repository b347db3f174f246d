package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry metrics. Registered on the default registerer; the app's
// /metrics endpoint exposes them.
var (
	// sessionsLive tracks the current registry size (live sessions only
	// after a sweep; may briefly include expired-but-unswept entries).
	sessionsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "authd_sessions_live",
		Help: "Number of sessions currently held by the registry",
	})

	// sessionsIssued counts sessions minted over the process lifetime.
	sessionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authd_sessions_issued_total",
		Help: "Total number of sessions issued",
	})

	// sessionsExpired counts sessions reclaimed by TTL (lazy or sweep).
	sessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authd_sessions_expired_total",
		Help: "Total number of sessions dropped after TTL expiry",
	})

	// sessionsRevoked counts sessions removed by explicit revocation.
	sessionsRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authd_sessions_revoked_total",
		Help: "Total number of sessions explicitly revoked",
	})

	// validations counts token lookups by result.
	validations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authd_session_validations_total",
		Help: "Total number of session token validations",
	}, []string{"result"})
)
