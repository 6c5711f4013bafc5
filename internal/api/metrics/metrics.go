// Package metrics defines the custom Prometheus metrics of the Agri-pal API.
// It is the single source of truth for metric names, labels and help strings.
//
// Build one Metrics per registry with New, before the HTTP server starts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agripal"

// Metrics holds the domain counters incremented by the HTTP handlers.
type Metrics struct {
	// RegistrationsTotal counts successful registrations.
	// Label:
	//   - role: "farmer" or "trader"
	RegistrationsTotal *prometheus.CounterVec

	// LoginsTotal counts login attempts.
	// Label:
	//   - result: "success" or "failure"
	LoginsTotal *prometheus.CounterVec

	// CropsCreatedTotal counts newly listed crops.
	CropsCreatedTotal prometheus.Counter

	// OffersCreatedTotal counts offers submitted by traders.
	OffersCreatedTotal prometheus.Counter

	// MarketplaceQueriesTotal counts public marketplace queries.
	// Label:
	//   - filtered: "true" when at least one filter was supplied
	MarketplaceQueriesTotal *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RegistrationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Total number of registered users, by role.",
			},
			[]string{"role"},
		),
		LoginsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Total number of login attempts, by result.",
			},
			[]string{"result"},
		),
		CropsCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crops_created_total",
			Help:      "Total number of crop listings created.",
		}),
		OffersCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_created_total",
			Help:      "Total number of offers submitted.",
		}),
		MarketplaceQueriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "marketplace_queries_total",
				Help:      "Total number of public marketplace queries.",
			},
			[]string{"filtered"},
		),
	}
}
