package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API server metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Purchase request lifecycle metrics

	// RequestsCreated counts new purchase request drafts per team.
	RequestsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_requests_created_total",
			Help: "Total number of purchase requests created",
		},
		[]string{"team", "purchase_type"},
	)

	// RequestTransitions counts workflow actions by outcome status.
	RequestTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_request_transitions_total",
			Help: "Total number of purchase request workflow transitions",
		},
		[]string{"action", "from_status", "to_status"},
	)

	// RequestsByStatus is set from a periodic scan of open requests.
	RequestsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "purchase_requests_by_status",
			Help: "Number of purchase requests currently in each status",
		},
		[]string{"status"},
	)

	// ApprovalLatency measures submit-to-terminal-status duration.
	ApprovalLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "purchase_request_approval_duration_seconds",
			Help:    "Time from submission to a terminal status",
			Buckets: []float64{60, 300, 1800, 3600, 14400, 86400, 259200, 604800},
		},
		[]string{"final_status"},
	)

	// ValidationFailures counts submissions blocked by required fields or
	// missing required attachments.
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_request_validation_failures_total",
			Help: "Total number of submissions rejected by validation",
		},
		[]string{"reason"}, // required_fields, required_attachments
	)

	// Attachment metrics

	AttachmentsUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attachments_uploaded_total",
			Help: "Total number of uploaded attachments",
		},
		[]string{"category"},
	)

	AttachmentUploadBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attachment_upload_size_bytes",
			Help:    "Size of uploaded attachments in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"category"},
	)

	// Notification metrics

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of webhook notifications sent",
		},
		[]string{"event", "result"}, // result: ok, error
	)
)
