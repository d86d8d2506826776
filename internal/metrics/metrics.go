// Package metrics counts invocations and exposes them for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

type Recorder interface {
	ObserveInvocation(action, outcome string, elapsed time.Duration)
	ObserveStale(action string)
}

func Noop() Recorder { return noop{} }

type noop struct{}

func (noop) ObserveInvocation(string, string, time.Duration) {}
func (noop) ObserveStale(string)                              {}

// Prometheus records onto its own registry so tests and multiple panels do
// not collide on the global default.
type Prometheus struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	stale       *prometheus.CounterVec
}

func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionrun_invocations_total",
				Help: "Completed action invocations by outcome.",
			},
			[]string{"action", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "actionrun_invocation_duration_seconds",
				Help:    "Wall time of action invocations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		stale: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionrun_stale_results_total",
				Help: "Invocation results dropped because a newer invocation or selection superseded them.",
			},
			[]string{"action"},
		),
	}
	p.registry.MustRegister(p.invocations, p.duration, p.stale)
	return p
}

func (p *Prometheus) ObserveInvocation(action, outcome string, elapsed time.Duration) {
	p.invocations.WithLabelValues(action, outcome).Inc()
	p.duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

func (p *Prometheus) ObserveStale(action string) {
	p.stale.WithLabelValues(action).Inc()
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves /metrics and /healthz.
func (p *Prometheus) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
	return r
}
