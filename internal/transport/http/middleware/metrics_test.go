package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Samuel-soita/project-tracker-backend/internal/metrics"
	"github.com/Samuel-soita/project-tracker-backend/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_LabelsByRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Metrics())
	r.GET("/projects/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/projects/:id", "204")
	unmatched := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before, beforeUnmatched := testutil.ToFloat64(counter), testutil.ToFloat64(unmatched)

	for _, path := range []string{"/projects/a", "/projects/b", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("route counter delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(unmatched) - beforeUnmatched; got != 1 {
		t.Errorf("unmatched counter delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in flight = %v after all requests finished", got)
	}
}
