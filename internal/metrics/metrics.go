package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/Samuel-soita/project-tracker-backend/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tracker"

var (
	// Auth metrics

	AuthEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Authentication events (register, login, verify_2fa, verify_email), by outcome.",
	}, []string{"event", "outcome"})

	ChallengesIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "two_factor_challenges_issued_total",
		Help:      "Second-factor codes issued.",
	})

	ChallengesResolvedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "two_factor_challenges_resolved_total",
		Help:      "Second-factor verification attempts, by outcome.",
	}, []string{"outcome"})

	ChallengesSweptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "two_factor_challenges_swept_total",
		Help:      "Expired second-factor codes removed by the janitor.",
	})

	// Email

	EmailDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_deliveries_total",
		Help:      "Outgoing emails, by kind and outcome.",
	}, []string{"kind", "outcome"})

	// Janitor

	JanitorRunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "janitor_run_duration_seconds",
		Help:      "Time taken for one janitor task.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"task"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Requests currently being served.",
	})
)

func Register() {
	prometheus.MustRegister(
		AuthEventsTotal,
		ChallengesIssuedTotal,
		ChallengesResolvedTotal,
		ChallengesSweptTotal,
		EmailDeliveriesTotal,
		JanitorRunDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
		HTTPRequestsInFlight,
	)
}

// NewServer exposes /metrics, /healthz and /readyz on a side port so probes
// and scrapes never compete with API traffic.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
