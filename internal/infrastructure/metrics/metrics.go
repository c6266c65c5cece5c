package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Settlement metrics
	SettlementsExecuted *prometheus.CounterVec
	SettlementDuration  prometheus.Histogram
	SettlementErrors    *prometheus.CounterVec

	// Account metrics
	AccountsCreated prometheus.Counter

	// Journal metrics
	EntriesRecorded prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBRetries prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		SettlementsExecuted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sab_settlements_executed_total",
				Help: "Total number of settlements executed, by instruction type",
			},
			[]string{"type"},
		),
		SettlementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sab_settlement_duration_seconds",
			Help:    "Duration of settlement execution",
			Buckets: prometheus.DefBuckets,
		}),
		SettlementErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sab_settlement_errors_total",
				Help: "Total number of settlement failures, by error kind",
			},
			[]string{"kind"},
		),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sab_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		EntriesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sab_journal_entries_total",
			Help: "Total number of journal entries recorded",
		}),
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sab_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sab_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		DBRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sab_db_retries_total",
			Help: "Total number of retried database operations",
		}),
	}
}
