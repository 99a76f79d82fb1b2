// Package metrics holds Prometheus instruments that are used across Feedback
// Desk.  All collectors are registered with the global registry, so mounting
// promhttp.Handler() in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for APICallsTotal.
const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport_error"
	OutcomeAPI       = "api_error"
	OutcomeDecode    = "decode_error"
)

var (
	APICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_api_calls_total",
			Help: "Calls made to the feedback API by operation and outcome.",
		}, []string{"op", "outcome"})

	APICallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedback_api_call_duration_seconds",
			Help:    "Round-trip latency of feedback API calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"})

	SubmissionsBlockedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_submissions_blocked_total",
			Help: "Submissions refused locally, by failing field.",
		}, []string{"field"})

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedback_active_sessions",
			Help: "Form sessions currently held in memory.",
		})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_http_requests_total",
			Help: "Requests served by the web front end.",
		}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(
		APICallsTotal,
		APICallDuration,
		SubmissionsBlockedTotal,
		ActiveSessions,
		HTTPRequestsTotal,
	)
}
