package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Account metrics
	AccountsCreated prometheus.Counter
	AccountsDeleted prometheus.Counter

	// Transaction metrics
	TransactionsCreated  prometheus.Counter
	TransactionsResolved *prometheus.CounterVec
	TransfersSent        prometheus.Counter
	OverdraftRejections  prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Idempotency metrics
	IdempotencyHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "peerledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "peerledger_accounts_deleted_total",
			Help: "Total number of accounts deleted",
		}),

		// Transaction metrics
		TransactionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "peerledger_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionsResolved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peerledger_transactions_resolved_total",
				Help: "Total number of transactions resolved by outcome",
			},
			[]string{"outcome"},
		),
		TransfersSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "peerledger_transfers_sent_total",
			Help: "Total number of direct transfers sent",
		}),
		OverdraftRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "peerledger_overdraft_rejections_total",
			Help: "Total number of transfers rejected for overdraft",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peerledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "peerledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Idempotency metrics
		IdempotencyHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peerledger_idempotency_hits_total",
				Help: "Total idempotency key checks by result",
			},
			[]string{"result"},
		),
	}
}
