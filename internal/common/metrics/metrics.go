package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applicant_submissions_total",
			Help: "Total number of application submissions by outcome",
		},
		[]string{"outcome"},
	)

	FollowupRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followup_runs_total",
			Help: "Total number of follow-up task runs by task type and status",
		},
		[]string{"task_type", "status"},
	)

	FollowupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "followup_duration_seconds",
			Help: "Duration of follow-up task runs in seconds",
		},
		[]string{"task_type"},
	)

	FollowupsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "followups_active",
			Help: "Number of follow-up tasks currently running",
		},
	)
)
