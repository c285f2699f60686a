package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rideshare"

var (
	DocumentsArchived = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "retention_documents_archived_total", Help: "Documents archived and deleted by the retention sweep"},
		[]string{"collection"},
	)
	BatchesCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "retention_batches_committed_total", Help: "Retention batches committed"},
		[]string{"collection"},
	)
	SweepFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "retention_sweep_failures_total", Help: "Retention sweeps aborted by an error"},
		[]string{"collection"},
	)
	SweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retention_sweep_duration_seconds",
			Help:      "Duration of a single collection sweep",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"collection"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "notifications_sent_total", Help: "Push notifications accepted by the gateway"},
		[]string{"type"},
	)
	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "notifications_failed_total", Help: "Push notifications rejected by the gateway"},
		[]string{"type", "reason"},
	)
	StaleTokensCleared = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "stale_tokens_cleared_total", Help: "Unregistered push tokens removed from profiles"},
	)

	Verifications = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "institution_verifications_total", Help: "Institution email verification attempts by outcome"},
		[]string{"outcome"},
	)
)
