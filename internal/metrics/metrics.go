package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
	Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphql_operations_total",
			Help: "Resolved GraphQL operations by outcome",
		},
		[]string{"operation", "outcome"},
	)
	AuthorizationDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_denied_total",
			Help: "Operations rejected by the authorization rules",
		},
		[]string{"operation"},
	)
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events handed to the broker",
		},
		[]string{"routing_key", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(Operations)
	prometheus.MustRegister(AuthorizationDenied)
	prometheus.MustRegister(EventsPublished)
}

// Outcome labels an error for the outcome dimension.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
