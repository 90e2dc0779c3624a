package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const checkTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool and *challenge.RedisStore.
type Pinger interface {
	Ping(ctx context.Context) error
}

type CheckResult struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type HealthResult struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

type dependency struct {
	name   string
	pinger Pinger
}

// Checker reports whether the API can serve traffic. Postgres backs every
// repository and Redis, when configured, holds pending 2FA codes, so either
// being unreachable makes the instance not ready.
type Checker struct {
	deps   []dependency
	logger *slog.Logger
	up     *prometheus.GaugeVec
}

// NewChecker registers the tracker_health_check_up gauge on reg.
func NewChecker(logger *slog.Logger, reg prometheus.Registerer) *Checker {
	up := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tracker",
		Name:      "health_check_up",
		Help:      "Whether a dependency is reachable. 1 = up, 0 = down.",
	}, []string{"dependency"})
	reg.MustRegister(up)

	return &Checker{logger: logger.With("component", "health"), up: up}
}

// Add registers a named dependency. Not safe to call once serving.
func (c *Checker) Add(name string, p Pinger) *Checker {
	c.deps = append(c.deps, dependency{name: name, pinger: p})
	return c
}

func (c *Checker) Liveness(_ context.Context) HealthResult {
	return HealthResult{Status: "up"}
}

// Readiness pings all dependencies in parallel, each bounded by checkTimeout.
func (c *Checker) Readiness(ctx context.Context) HealthResult {
	results := make([]CheckResult, len(c.deps))

	var wg sync.WaitGroup
	for i, d := range c.deps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.ping(ctx, d)
		}()
	}
	wg.Wait()

	out := HealthResult{Status: "up", Checks: make(map[string]CheckResult, len(c.deps))}
	for i, d := range c.deps {
		if results[i].Status != "up" {
			out.Status = "down"
		}
		out.Checks[d.name] = results[i]
	}
	return out
}

func (c *Checker) ping(ctx context.Context, d dependency) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := d.pinger.Ping(ctx)
	res := CheckResult{Status: "up", LatencyMS: time.Since(start).Milliseconds()}

	if err != nil {
		c.logger.WarnContext(ctx, "readiness check failed", "dependency", d.name, "error", err)
		res.Status = "down"
		res.Error = err.Error()
		c.up.WithLabelValues(d.name).Set(0)
		return res
	}
	c.up.WithLabelValues(d.name).Set(1)
	return res
}
