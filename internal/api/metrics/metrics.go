// Package metrics defines and registers all custom Prometheus metrics for
// the user-management service. It is the single source of truth for metric
// names, labels, and help strings; HTTP-level metrics come from the
// echoprometheus middleware wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "usermgmt"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "access_denied", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshTotal counts silent and explicit token refreshes.
// Label:
//   - result: "success" or "failure"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of token pair rotations, by result.",
	},
	[]string{"result"},
)

// CSRFRejectedTotal counts web form submissions rejected by CSRF verification.
var CSRFRejectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csrf_rejected_total",
		Help:      "Total number of requests rejected by CSRF verification.",
	},
)

// UsersCreatedTotal counts users created through either surface.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created.",
	},
)

// UsersDeletedTotal counts users deleted through either surface.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of users deleted.",
	},
)
