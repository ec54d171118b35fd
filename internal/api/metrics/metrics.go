// Package metrics defines all custom Prometheus metrics for the check-in
// API. It is the single source of truth for metric names, labels, and help
// strings; metrics register themselves with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "checkin"

// ── Visit metrics ─────────────────────────────────────────────────────────────

// VisitsRecordedTotal counts visits that completed processing successfully.
// Label:
//   - direction: "in" or "out"
var VisitsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visits_recorded_total",
		Help:      "Total number of visits successfully recorded.",
	},
	[]string{"direction"},
)

// VisitsErrorsTotal counts visits that failed processing.
// Label:
//   - reason: short description of the failure (e.g. "zone_not_found", "update_failed")
var VisitsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visits_errors_total",
		Help:      "Total number of visits that failed processing.",
	},
	[]string{"reason"},
)

// VisitsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new visit, processed)
var VisitsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visits_dedup_total",
		Help:      "Total number of visit deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the number of visit events waiting in each audit
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of visit events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// ── Hierarchy metrics ─────────────────────────────────────────────────────────

// ClientsCreatedTotal counts newly created clients.
var ClientsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_created_total",
		Help:      "Total number of clients created.",
	},
)

// CodesGeneratedTotal counts QR code payloads synthesized for zones that
// lacked one.
var CodesGeneratedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "codes_generated_total",
		Help:      "Total number of zone QR codes generated.",
	},
)
