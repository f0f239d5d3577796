// Package metrics defines and registers all custom Prometheus metrics for
// the onboarding API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "onboarding"

// ── Authentication metrics ────────────────────────────────────────────────────

// AuthAttemptsTotal counts bearer-token authentications at the middleware.
// Label:
//   - outcome: "ok", "missing_token", "malformed_token", "invalid_token"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of bearer-token authentication attempts, by outcome.",
	},
	[]string{"outcome"},
)

// SessionValidationsTotal counts per-request session liveness checks.
// Label:
//   - result: "valid", "expired", "error", "skipped"
var SessionValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_validations_total",
		Help:      "Total number of session liveness checks, by result.",
	},
	[]string{"result"},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDenialsTotal counts authorization guard denials.
// Label:
//   - code: machine-readable denial code (e.g. "INSUFFICIENT_PERMISSIONS")
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of authorization guard denials, by denial code.",
	},
	[]string{"code"},
)

// ── Checklist metrics ─────────────────────────────────────────────────────────

// ChecklistsGeneratedTotal counts generated checklists.
// Label:
//   - source: "llm" or "template"
var ChecklistsGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checklists_generated_total",
		Help:      "Total number of onboarding checklists generated, by generator source.",
	},
	[]string{"source"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events accepted by the dispatcher.
// Label:
//   - action: the audit action ("login", "login_failed", "logout", "access_denied")
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events accepted for recording, by action.",
	},
	[]string{"action"},
)

// AuditQueueDepth tracks the events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
