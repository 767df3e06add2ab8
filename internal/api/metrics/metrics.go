// Package metrics defines and registers the custom Prometheus metrics of the
// text submission API. HTTP request metrics come from the echoprometheus
// middleware wired in the router; everything here is domain-level.
//
// All metrics are registered with the default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "textsubmission"

// ── Submission metrics ────────────────────────────────────────────────────────

// SubmissionsCreatedTotal counts submissions that were persisted.
var SubmissionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_created_total",
		Help:      "Total number of text submissions persisted.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts submission notifications by outcome.
// Label:
//   - result: "published", "failed" (publisher returned an error) or "dropped" (queue full)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of submission notifications, labelled by outcome.",
	},
	[]string{"result"},
)

// NotificationQueueDepth is the number of notifications waiting for a worker.
var NotificationQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in the dispatcher.",
	},
)

// ── Real-time metrics ─────────────────────────────────────────────────────────

// RealtimeClients is the number of connected websocket listeners.
var RealtimeClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_clients",
		Help:      "Current number of connected real-time listeners.",
	},
)

// RealtimeEvictionsTotal counts listeners disconnected because their send
// buffer was full.
var RealtimeEvictionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_evictions_total",
		Help:      "Total number of slow real-time listeners disconnected.",
	},
)

// ── Admin metrics ─────────────────────────────────────────────────────────────

// AdminActionsTotal counts successful administrative mutations.
// Label:
//   - action: "update_role" or "delete_user"
var AdminActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_actions_total",
		Help:      "Total number of successful administrative mutations, by action.",
	},
	[]string{"action"},
)
