// Package metrics defines the custom Prometheus metrics of the Aidpoint API.
// Every metric registers with the default registry at package init through
// promauto, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aidpoint"

// Login results.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginInactive           = "inactive"
	LoginLocked             = "locked"
)

// ── Authorization ────────────────────────────────────────────────────────────

// PrivilegeChecksTotal counts route privilege gates.
// Labels:
//   - mode: "single", "any" or "all"
//   - result: "granted" or "denied"
var PrivilegeChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "privilege_checks_total",
		Help:      "Total number of privilege gate evaluations, by mode and result.",
	},
	[]string{"mode", "result"},
)

// EntitlementDenialsTotal counts creations blocked by the caller's plan.
// Labels:
//   - resource: "beneficiaries" or "employees"
//   - reason: "no_subscription" or "limit_reached"
var EntitlementDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entitlement_denials_total",
		Help:      "Total number of resource creations denied by subscription entitlements.",
	},
	[]string{"resource", "reason"},
)

// ── Auth ─────────────────────────────────────────────────────────────────────

var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Resources ────────────────────────────────────────────────────────────────

// ResourcesCreatedTotal counts successful creations.
// Label:
//   - resource: "employees", "beneficiaries", "positions", "subscriptions", "aid_requests", "users"
var ResourcesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resources_created_total",
		Help:      "Total number of resources created, by resource type.",
	},
	[]string{"resource"},
)
