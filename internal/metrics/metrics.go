package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Ledger
	LedgerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Ledger operations by outcome",
		},
		[]string{"op", "result"}, // result: ok|replayed|rejected|failed
	)
	LedgerRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_rejections_total",
			Help: "Ledger rejections by error code",
		},
		[]string{"reason"},
	)
	CommitRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_commit_retries_total",
			Help: "Commit attempts retried after a storage failure",
		},
	)

	// Fraud
	FraudFlags = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraud_flags_total",
			Help: "Suspicious activity signals raised",
		},
		[]string{"reason"},
	)

	initOnce sync.Once
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal)
		prometheus.MustRegister(LedgerOperations)
		prometheus.MustRegister(LedgerRejections)
		prometheus.MustRegister(CommitRetries)
		prometheus.MustRegister(FraudFlags)
	})
}
