// Package metrics defines the custom Prometheus metrics of the dispatch API.
// It is the single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default registry through promauto when the
// package is loaded; the /metrics route exposes them next to the HTTP metrics
// produced by the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dispatch"

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts newly stored orders.
// Label:
//   - origin: "admin" for panel orders, otherwise the external source tag
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created, by origin.",
	},
	[]string{"origin"},
)

// OrderClaimsTotal counts claim attempts.
// Label:
//   - result: "won", "conflict", "not_found" or "error"
var OrderClaimsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_claims_total",
		Help:      "Total number of order claim attempts, labelled by result.",
	},
	[]string{"result"},
)

// OrderStatusChangesTotal counts applied status updates by target status.
var OrderStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Total number of order status updates applied, by new status.",
	},
	[]string{"status"},
)

// OrdersByStatus is refreshed periodically by the stats job.
var OrdersByStatus = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "orders_by_status",
		Help:      "Current number of stored orders in each status.",
	},
	[]string{"status"},
)

// ── External ingestion metrics ────────────────────────────────────────────────

// ExternalOrdersTotal counts ingestion outcomes.
// Labels:
//   - source: external source tag (e.g. "garagem67", "json_upload")
//   - result: "created", "replay" or "in_flight"
var ExternalOrdersTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "external_orders_total",
		Help:      "Total number of external order deliveries, labelled by source and result.",
	},
	[]string{"source", "result"},
)

// ── Courier metrics ───────────────────────────────────────────────────────────

var CouriersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "couriers_registered_total",
		Help:      "Total number of courier profiles registered.",
	},
)

// CourierApprovalsTotal counts admin decisions by resulting status.
var CourierApprovalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "courier_approvals_total",
		Help:      "Total number of courier approval decisions, by resulting status.",
	},
	[]string{"status"},
)

// ── Audit trail metrics ───────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of order events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit writes.
// Label:
//   - result: "written", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of order events handled by the audit workers, by result.",
	},
	[]string{"result"},
)

// AuditWriteDuration measures a single audit insert.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of a single order event insert.",
		Buckets:   prometheus.DefBuckets,
	},
)
