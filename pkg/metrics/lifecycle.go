package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business metrics for the subscription lifecycle engine.
var (
	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_dispatched_total",
		Help: "Notifications persisted, partitioned by notification type.",
	}, []string{"type"})

	LifecycleRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_runs_total",
		Help: "Lifecycle runs, partitioned by trigger and result.",
	}, []string{"trigger", "status"})

	LifecycleRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lifecycle_run_dur_ms",
		Help:    "Lifecycle run duration in milliseconds.",
		Buckets: HistogramBuckets,
	})
)
