package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/crossroads/pkg/domain"
)

// Metrics holds the Prometheus collectors of the HTTP surface.
type Metrics struct {
	registry *prometheus.Registry

	roundsParsed  *prometheus.CounterVec
	repairs       *prometheus.CounterVec
	dialogsOpened *prometheus.CounterVec
	submissions   prometheus.Counter
	refusals      prometheus.Counter
	cancellations prometheus.Counter
	requests      *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		roundsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crossroads_rounds_parsed_total",
			Help: "Decision rounds recognized in agent messages.",
		}, []string{"dialect"}),
		repairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crossroads_round_repairs_total",
			Help: "Normalization repairs applied while parsing rounds.",
		}, []string{"dialect"}),
		dialogsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crossroads_dialogs_opened_total",
			Help: "Dialog sessions opened.",
		}, []string{"dialect"}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crossroads_dialog_submissions_total",
			Help: "Dialogs submitted with a reply.",
		}),
		refusals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crossroads_dialog_submit_refusals_total",
			Help: "Submit attempts refused because questions were unanswered.",
		}),
		cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crossroads_dialog_cancellations_total",
			Help: "Dialogs cancelled without a reply.",
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crossroads_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		m.roundsParsed, m.repairs, m.dialogsOpened,
		m.submissions, m.refusals, m.cancellations, m.requests,
	)
	return m
}

// Registry exposes the registry, e.g. to add process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that feed the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRoundParsed: func(_ context.Context, ev *domain.RoundEvent) {
			m.roundsParsed.WithLabelValues(ev.Dialect).Inc()
			m.repairs.WithLabelValues(ev.Dialect).Add(float64(ev.Repairs))
		},
		OnSubmitted: func(context.Context, *domain.DialogEvent) {
			m.submissions.Inc()
		},
		OnSubmitRefused: func(context.Context, *domain.DialogEvent) {
			m.refusals.Inc()
		},
		OnCancelled: func(context.Context, *domain.DialogEvent) {
			m.cancellations.Inc()
		},
	}
}

// instrument records request durations by chi route pattern.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
