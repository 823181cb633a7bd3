package observability

import (
	"context"

	"github.com/aretw0/bitty/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes engine activity as Prometheus collectors.
type Metrics struct {
	Mounts        *prometheus.CounterVec
	Rebuilds      prometheus.Counter
	Dispatches    *prometheus.CounterVec
	Receivers     prometheus.Histogram
	HandlerErrors *prometheus.CounterVec
	Components    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mounts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitty_mounts_total",
				Help: "Total number of component mounts by outcome",
			},
			[]string{"connected"},
		),
		Rebuilds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bitty_registry_rebuilds_total",
				Help: "Total number of receiver registry rebuilds",
			},
		),
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitty_dispatches_total",
				Help: "Total number of dispatched signals by event type and outcome",
			},
			[]string{"event_type", "outcome"},
		),
		Receivers: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bitty_dispatch_receivers",
				Help:    "Number of receivers invoked per dispatched signal",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
			},
		),
		HandlerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitty_handler_errors_total",
				Help: "Total number of failed signal handlers",
			},
			[]string{"signal"},
		),
		Components: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "bitty_components",
				Help: "Number of live components",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Mounts, m.Rebuilds, m.Dispatches, m.Receivers, m.HandlerErrors, m.Components)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMount: func(_ context.Context, e *domain.MountEvent) {
			if e.Connected {
				m.Mounts.WithLabelValues("true").Inc()
				m.Components.Inc()
				return
			}
			m.Mounts.WithLabelValues("false").Inc()
		},
		OnUnmount: func(_ context.Context, e *domain.MountEvent) {
			if e.Connected {
				m.Components.Dec()
			}
		},
		OnRebuild: func(_ context.Context, _ *domain.RebuildEvent) {
			m.Rebuilds.Inc()
		},
		OnDispatch: func(_ context.Context, e *domain.DispatchEvent) {
			m.Dispatches.WithLabelValues(e.EventType, Outcome(e)).Inc()
			m.Receivers.Observe(float64(len(e.Receivers)))
		},
		OnHandlerError: func(_ context.Context, e *domain.HandlerErrorEvent) {
			m.HandlerErrors.WithLabelValues(e.Signal).Inc()
		},
	}
}

// Outcome classifies a dispatch record as "receivers", "fallback" or "unhandled".
func Outcome(e *domain.DispatchEvent) string {
	switch {
	case len(e.Receivers) > 0:
		return "receivers"
	case e.Fallback:
		return "fallback"
	default:
		return "unhandled"
	}
}
