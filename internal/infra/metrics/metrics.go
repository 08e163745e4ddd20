// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(webhookUpdatesTotal, webhookDuplicatesTotal)
}

var (
	webhookUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_updates_total",
			Help: "Webhook deliveries by acknowledgment outcome (ok/not_ready/internal_error).",
		},
		[]string{"outcome"},
	)

	webhookDuplicatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_duplicate_updates_total",
			Help: "Redelivered updates skipped by update_id de-duplication.",
		},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// -------- Webhook helpers --------

func IncWebhookUpdate(outcome string) {
	webhookUpdatesTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncDuplicateUpdate() {
	webhookDuplicatesTotal.Inc()
}
