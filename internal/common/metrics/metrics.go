// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PushDeliveriesAttempted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_deliveries_attempted_total",
			Help: "Total number of push delivery attempts",
		},
		[]string{"category"},
	)

	PushDeliveriesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_deliveries_failed_total",
			Help: "Total number of failed push deliveries",
		},
		[]string{"category", "error_code"},
	)

	PushDeliveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "push_delivery_duration_seconds",
			Help: "Duration of a single push delivery attempt in seconds",
		},
		[]string{"category"},
	)

	ReminderSweepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_sweep_runs_total",
			Help: "Total number of reminder sweep executions",
		},
		[]string{"outcome"},
	)

	ReminderSweepSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_sweep_reminders_sent_total",
			Help: "Total reminders sent by the sweep",
		},
		[]string{"window"},
	)

	DispatchFanoutSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_fanout_recipients",
			Help:    "Audience size per system-notification dispatch",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)
