package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the domain-level Prometheus collectors. HTTP request
// metrics live in the transport middleware.
type Metrics struct {
	HashingRejected prometheus.Counter
	SignInFailures  prometheus.Counter
	TokensIssued    *prometheus.CounterVec
}

// NewMetrics registers the application collectors on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		HashingRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "ccn",
			Name:      "hashing_rejected_total",
			Help:      "Requests rejected because the hashing pool was saturated",
		}),
		SignInFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "ccn",
			Name:      "sign_in_failures_total",
			Help:      "Failed credential validations",
		}),
		TokensIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ccn",
			Name:      "temp_tokens_issued_total",
			Help:      "Temporary tokens issued per flow",
		}, []string{"token_type"}),
	}
}
