// Package metrics defines and registers all custom Prometheus metrics for the
// incident reporting API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "incident_reporting"

// ── Incident metrics ──────────────────────────────────────────────────────────

// IncidentsReportedTotal counts incidents accepted from mobile clients.
// Labels:
//   - reporter: "anonymous" or "profile"
var IncidentsReportedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "incidents_reported_total",
		Help:      "Total number of incidents reported, by reporter kind.",
	},
	[]string{"reporter"},
)

// IdempotentReplaysTotal counts submissions answered from an earlier request.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "incident_idempotent_replays_total",
		Help:      "Total number of incident submissions answered from an idempotency key.",
	},
)

// StatusDecisionsTotal counts status updates.
// Labels:
//   - status: target status
//   - result: "applied", "noop" or "rejected"
var StatusDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "incident_status_decisions_total",
		Help:      "Total number of incident status decisions, by target status and result.",
	},
	[]string{"status", "result"},
)

// ── Enrichment metrics ────────────────────────────────────────────────────────

// ClassificationFailuresTotal counts absorbed classifier failures.
// Label:
//   - reason: "upstream", "not_found", "persist" or "queue_full"
var ClassificationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "incident_classification_failures_total",
		Help:      "Total number of classification attempts that failed and were absorbed.",
	},
	[]string{"reason"},
)

// ClassificationDuration measures round-trip time to the classifier.
var ClassificationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "incident_classification_duration_seconds",
		Help:      "Duration of calls to the classification collaborator.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30},
	},
	[]string{"outcome"},
)

// EnrichmentQueueDepth tracks the number of incidents waiting in each worker channel.
var EnrichmentQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "enrichment_queue_depth",
		Help:      "Current number of incidents pending in each enrichment worker channel.",
	},
	[]string{"worker_id"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts dashboard logins.
// Label:
//   - result: "success", "failure" or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_login_attempts_total",
		Help:      "Total number of dashboard login attempts, by result.",
	},
	[]string{"result"},
)

// ProfilesCreatedTotal counts new mobile profiles.
var ProfilesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "app_profiles_created_total",
		Help:      "Total number of app user profiles created.",
	},
)
