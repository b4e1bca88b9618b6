package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/actionbridge/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records bridge activity as Prometheus collectors.
type Metrics struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	overrides  *prometheus.CounterVec
	requests   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionbridge_dispatch_total",
				Help: "Total number of actions dispatched to the host application",
			},
			[]string{"method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "actionbridge_dispatch_duration_seconds",
				Help:    "Duration of in-process dispatches",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		overrides: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionbridge_method_override_total",
				Help: "Actions whose embedded method was replaced by a shortcut",
			},
			[]string{"declared", "enforced"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionbridge_requests_total",
				Help: "Evaluation requests handled, by outcome",
			},
			[]string{"outcome", "status"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.dispatches, m.duration, m.overrides, m.requests)
	}
	return m
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnDispatchDone: func(_ context.Context, e *domain.DispatchEvent) {
			method := e.Action.Method.Verb()
			status := "error"
			if e.Err == nil || e.Status > 0 {
				status = strconv.Itoa(e.Status)
			}
			m.dispatches.WithLabelValues(method, status).Inc()
			m.duration.WithLabelValues(method).Observe(e.Duration.Seconds())
		},
		OnMethodOverride: func(_ context.Context, e *domain.OverrideEvent) {
			m.overrides.WithLabelValues(e.Declared.Verb(), e.Enforced.Verb()).Inc()
		},
		OnRequestHandled: func(_ context.Context, e *domain.RequestEvent) {
			m.requests.WithLabelValues(string(e.Outcome), strconv.Itoa(e.Status)).Inc()
		},
	}
}
