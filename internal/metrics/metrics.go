package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stride_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ScheduleSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_schedule_saves_total",
			Help: "Total number of schedule save attempts by outcome",
		},
		[]string{"outcome"},
	)

	ScheduleConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stride_schedule_conflicts_total",
			Help: "Total number of saves rejected by slot validation",
		},
	)

	ImpactQueriesFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stride_impact_queries_failed_total",
			Help: "Total number of impact queries that degraded to zero impact",
		},
	)

	AffectedBookingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stride_affected_bookings_total",
			Help: "Total number of booked parties affected by committed changes",
		},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_notifications_sent_total",
			Help: "Total number of notification emails sent",
		},
		[]string{"status"},
	)

	EditWindowsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stride_edit_windows_expired_total",
			Help: "Total number of editing windows closed by the expiry job",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordScheduleSave(outcome string) {
	ScheduleSavesTotal.WithLabelValues(outcome).Inc()
}

func RecordNotification(status string) {
	NotificationsSentTotal.WithLabelValues(status).Inc()
}
