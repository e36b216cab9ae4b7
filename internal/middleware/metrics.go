package middleware

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	Registry *prometheus.Registry

	requests          *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	recipesSaved      prometheus.Counter
	suggestionFailure prometheus.Counter
	suggestionServed  *prometheus.CounterVec
}

// NewMetrics registers the RPC and domain collectors on a fresh registry,
// together with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docelucro",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "docelucro",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		recipesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docelucro",
			Name:      "recipes_saved_total",
			Help:      "Recipes created or edited.",
		}),
		suggestionFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docelucro",
			Name:      "suggestion_failures_total",
			Help:      "Suggestion requests that returned no usable result.",
		}),
		suggestionServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docelucro",
			Name:      "suggestions_served_total",
			Help:      "Suggestion results by origin (model or cache).",
		}, []string{"origin"}),
	}
	m.Registry.MustRegister(
		m.requests,
		m.duration,
		m.recipesSaved,
		m.suggestionFailure,
		m.suggestionServed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Interceptor records a count and a latency observation for every RPC.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			m.duration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(procedure, codeOf(err)).Inc()
			return resp, err
		}
	}
}

// RecipeSaved counts a successful save.
func (m *Metrics) RecipeSaved() {
	if m != nil {
		m.recipesSaved.Inc()
	}
}

// SuggestionFailed counts a failed suggestion request.
func (m *Metrics) SuggestionFailed() {
	if m != nil {
		m.suggestionFailure.Inc()
	}
}

// SuggestionServed counts a suggestion result; cached tells where it came from.
func (m *Metrics) SuggestionServed(cached bool) {
	if m == nil {
		return
	}
	origin := "model"
	if cached {
		origin = "cache"
	}
	m.suggestionServed.WithLabelValues(origin).Inc()
}

func codeOf(err error) string {
	if err == nil {
		return "ok"
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Code().String()
	}
	return connect.CodeUnknown.String()
}
