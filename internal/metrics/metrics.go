// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartinvest_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartinvest_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DealEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartinvest_deal_evaluations_total",
			Help: "Total number of deal analyzer runs by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	ImageUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartinvest_image_uploads_total",
			Help: "Total number of image uploads by outcome",
		},
		[]string{"outcome"},
	)

	AssistantRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartinvest_assistant_requests_total",
			Help: "Total number of AI assistant questions by outcome",
		},
		[]string{"outcome"},
	)
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)
