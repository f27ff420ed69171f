// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal counts handled requests by method, route and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// AuthFailuresTotal counts requests rejected by the auth middleware.
	AuthFailuresTotal prometheus.Counter

	// SignInsTotal counts successful sign-ins.
	SignInsTotal prometheus.Counter
)

// InitMetrics registers all collectors. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Handled HTTP requests.",
		}, []string{"method", "path", "status"})

		AuthFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Requests rejected for a missing or invalid token.",
		})

		SignInsTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "sign_ins_total",
			Help: "Successful sign-ins.",
		})
	})
}
