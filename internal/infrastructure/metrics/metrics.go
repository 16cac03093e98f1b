package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/goexpense/internal/domain"
)

const namespace = "goexpense"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TransactionsAdded   prometheus.Counter
	TransactionsRemoved prometheus.Counter
	TransactionAmount   *prometheus.HistogramVec
	Balance             prometheus.Gauge
	TransactionCount    prometheus.Gauge

	// Store metrics
	StoreOperations *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
	StoreErrors     *prometheus.CounterVec

	// API metrics
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg.
// A nil reg uses the default Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_added_total",
			Help:      "Total number of transactions added",
		}),
		TransactionsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_removed_total",
			Help:      "Total number of transactions removed",
		}),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transaction_amount_abs",
				Help:      "Absolute transaction amounts by kind",
				Buckets:   []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"kind"},
		),
		Balance: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "balance",
			Help:      "Current ledger balance",
		}),
		TransactionCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transactions",
			Help:      "Current number of transactions",
		}),

		StoreOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Total store operations",
			},
			[]string{"operation"},
		),
		StoreDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_duration_seconds",
				Help:      "Store operation duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Total store errors",
			},
			[]string{"operation"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Total requests rejected by the rate limiter",
		}),
	}
}

// TransactionAdded records a newly added transaction.
func (m *Metrics) TransactionAdded(amount decimal.Decimal) {
	m.TransactionsAdded.Inc()

	m.TransactionAmount.WithLabelValues(domain.KindOf(amount)).Observe(amount.Abs().InexactFloat64())
}

// TransactionRemoved records a removal.
func (m *Metrics) TransactionRemoved() {
	m.TransactionsRemoved.Inc()
}

// LedgerState sets the balance and count gauges.
func (m *Metrics) LedgerState(balance decimal.Decimal, count int) {
	m.Balance.Set(balance.InexactFloat64())
	m.TransactionCount.Set(float64(count))
}

// StoreOperation records a store load or save.
func (m *Metrics) StoreOperation(op string, duration time.Duration, err error) {
	m.StoreOperations.WithLabelValues(op).Inc()
	m.StoreDuration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		m.StoreErrors.WithLabelValues(op).Inc()
	}
}

// HTTPRequestStarted increments the in-flight gauge.
func (m *Metrics) HTTPRequestStarted() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTPRequestFinished records a completed request.
func (m *Metrics) HTTPRequestFinished(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsInFlight.Dec()
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RateLimited records a rejected request.
func (m *Metrics) RateLimited() {
	m.RateLimitHits.Inc()
}
