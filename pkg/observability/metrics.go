package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the ledger engine.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	operationDuration *prometheus.HistogramVec
	operationsTotal   *prometheus.CounterVec
	commitConflicts   *prometheus.CounterVec
	notifyFailures    *prometheus.CounterVec
	journalDrift      prometheus.Gauge
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// metrics in it. A private registry lets tests build as many as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Duration of ledger operations including retries.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Ledger operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
		commitConflicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_commit_conflicts_total",
				Help: "Optimistic commit attempts that lost a race.",
			},
			[]string{"operation"},
		),
		notifyFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_notify_failures_total",
				Help: "Post-commit notifications that could not be delivered.",
			},
			[]string{"event"},
		),
		journalDrift: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledger_reconciliation_drifts",
				Help: "Accounts with journal or escrow drift in the last audit.",
			},
		),
	}
}

// ObserveOperation records the duration and outcome of an operation.
func (m *Metrics) ObserveOperation(operation, outcome string, d time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
}

// IncrConflict counts one lost commit race.
func (m *Metrics) IncrConflict(operation string) {
	m.commitConflicts.WithLabelValues(operation).Inc()
}

// IncrNotifyFailure counts one undelivered notification.
func (m *Metrics) IncrNotifyFailure(event string) {
	m.notifyFailures.WithLabelValues(event).Inc()
}

// SetDrifts publishes how many distinct accounts drifted in the last audit.
func (m *Metrics) SetDrifts(n int) {
	m.journalDrift.Set(float64(n))
}

// OperationCount returns the cumulative count for an operation and outcome.
func (m *Metrics) OperationCount(operation, outcome string) float64 {
	return counterValue(m.operationsTotal.WithLabelValues(operation, outcome))
}

// ConflictCount returns the cumulative conflict count for an operation.
func (m *Metrics) ConflictCount(operation string) float64 {
	return counterValue(m.commitConflicts.WithLabelValues(operation))
}

func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
