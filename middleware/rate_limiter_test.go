package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitRejectionCountsThrottledRequests(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "1")
	t.Setenv("RATE_LIMIT_BURST", "3")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	// Same chain main.go builds: the rate limiter sits outermost.
	chain := RateLimitMiddleware(MonitorMiddleware(inner))

	before := testutil.ToFloat64(throttledRequests)

	rejected := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/progress", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.77")
		rr := httptest.NewRecorder()
		chain.ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			rejected++
		}
	}

	require.Greater(t, rejected, 0, "burst of 3 should not admit 10 immediate requests")
	assert.Equal(t, before+float64(rejected), testutil.ToFloat64(throttledRequests))
}
