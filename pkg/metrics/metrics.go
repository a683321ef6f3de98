package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// CircuitState mirrors the breaker states exported as a gauge.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// Metrics holds the Prometheus collectors for the payment flow. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	gatewayRequests       *prometheus.CounterVec
	gatewayLatency        *prometheus.HistogramVec
	circuitState          *prometheus.GaugeVec
	transactionsCreated   *prometheus.CounterVec
	transactionsProcessed *prometheus.CounterVec
	processedAmount       *prometheus.CounterVec
	statusTransitions     *prometheus.CounterVec
	scheduledRuns         *prometheus.CounterVec
}

// New creates the collectors under the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		gatewayRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_requests_total",
				Help:      "Total number of payment provider calls per provider, operation and outcome",
			},
			[]string{"provider", "operation", "outcome"},
		),
		gatewayLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_request_duration_seconds",
				Help:      "Latency of payment provider calls",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider", "operation"},
		),
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "gateway_circuit_state",
				Help:      "Circuit breaker state per provider (0=closed, 1=open, 2=half-open)",
			},
			[]string{"provider"},
		),
		transactionsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_created_total",
				Help:      "Transactions persisted by the ledger per type and instrument kind",
			},
			[]string{"type", "instrument"},
		),
		transactionsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_processed_total",
				Help:      "Transactions that reached completed per type and currency",
			},
			[]string{"type", "currency"},
		),
		processedAmount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_processed_amount_total",
				Help:      "Sum of completed transaction amounts per currency",
			},
			[]string{"currency"},
		),
		statusTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transaction_status_transitions_total",
				Help:      "Applied transaction status transitions",
			},
			[]string{"from", "to", "source"},
		),
		scheduledRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scheduled_payment_runs_total",
				Help:      "Scheduled payment executions per outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Register registers every collector with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.gatewayRequests,
		m.gatewayLatency,
		m.circuitState,
		m.transactionsCreated,
		m.transactionsProcessed,
		m.processedAmount,
		m.statusTransitions,
		m.scheduledRuns,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler exposes the registry over HTTP.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

func (m *Metrics) RecordGatewayRequest(provider, operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(provider, operation, outcome).Inc()
	m.gatewayLatency.WithLabelValues(provider, operation).Observe(d.Seconds())
}

func (m *Metrics) RecordCircuitState(provider string, state CircuitState) {
	if m == nil {
		return
	}
	m.circuitState.WithLabelValues(provider).Set(float64(state))
}

func (m *Metrics) RecordTransactionCreated(txType, instrument string) {
	if m == nil {
		return
	}
	m.transactionsCreated.WithLabelValues(txType, instrument).Inc()
}

func (m *Metrics) RecordTransactionProcessed(txType, currency string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.transactionsProcessed.WithLabelValues(txType, currency).Inc()
	m.processedAmount.WithLabelValues(currency).Add(amount.InexactFloat64())
}

func (m *Metrics) RecordStatusTransition(from, to, source string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to, source).Inc()
}

func (m *Metrics) RecordScheduledRun(outcome string) {
	if m == nil {
		return
	}
	m.scheduledRuns.WithLabelValues(outcome).Inc()
}
