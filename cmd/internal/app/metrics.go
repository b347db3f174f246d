package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP server metrics. The path label is normalized to the registered
// route set via routeLabel; unregistered paths collapse into one bucket so
// scanners probing random URLs cannot mint unbounded series.
var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authd_http_requests_total",
		Help: "Total number of HTTP requests by method, path and status class",
	}, []string{"method", "path", "class"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "authd_http_request_duration_seconds",
		Help:    "Histogram of HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// servedRoutes is the set of paths the mux actually serves. Keep in sync
// with registerHTTP and Handler.Register.
var servedRoutes = map[string]struct{}{
	"/healthz":  {},
	"/readyz":   {},
	"/metrics":  {},
	"/register": {},
	"/login":    {},
	"/check":    {},
	"/logout":   {},
	"/user":     {},
	"/sessions": {},
}

// routeLabel maps a request path onto the fixed label set used by the HTTP
// metrics. Anything outside the served routes becomes "other".
func routeLabel(path string) string {
	if _, ok := servedRoutes[path]; ok {
		return path
	}
	return "other"
}

// metricsHandler exposes the default Prometheus registry.
func metricsHandler() http.Handler {
	return promhttp.Handler()
}
