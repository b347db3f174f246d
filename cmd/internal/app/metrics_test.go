package app

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRouteLabel(t *testing.T) {
	t.Parallel()

	for _, p := range []string{
		"/healthz", "/readyz", "/metrics",
		"/register", "/login", "/check", "/logout", "/user", "/sessions",
	} {
		if got := routeLabel(p); got != p {
			t.Fatalf("routeLabel(%q) = %q, want the path itself", p, got)
		}
	}

	for _, p := range []string{
		"/", "/admin", "/register/", "/LOGIN", "/wp-login.php", "/..%2f..%2fetc",
	} {
		if got := routeLabel(p); got != "other" {
			t.Fatalf("routeLabel(%q) = %q, want \"other\"", p, got)
		}
	}
}

func TestRequestMetricsCardinalityBounded(t *testing.T) {
	before := testutil.CollectAndCount(httpRequests)

	h := WithRequestLogging(http.NotFoundHandler(), discardLogger())
	for i := 0; i < 500; i++ {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/scan-%04d", i), nil)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	after := testutil.CollectAndCount(httpRequests)
	if grown := after - before; grown > 1 {
		t.Fatalf("distinct unknown paths minted %d new series, want at most 1", grown)
	}
}
