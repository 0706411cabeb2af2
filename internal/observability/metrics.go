package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds the Prometheus metrics for statement analysis.
type Metrics struct {
	// Registry owns these metrics; the /metrics endpoint serves it.
	Registry *prometheus.Registry

	documents        *prometheus.CounterVec
	transactions     *prometheus.CounterVec
	inferenceRules   *prometheus.CounterVec
	summaryStrategy  *prometheus.CounterVec
	documentDuration prometheus.Histogram
}

// NewMetrics creates a dedicated registry and registers all metrics in it,
// so calling it more than once (e.g. in tests) never panics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		documents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_documents_total",
				Help: "Documents analyzed, by extraction path and outcome.",
			},
			[]string{"dialect", "status"},
		),
		transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transactions_total",
				Help: "Transactions extracted, by extraction path.",
			},
			[]string{"path"},
		),
		inferenceRules: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_inference_rules_total",
				Help: "Direction rules fired, by rule.",
			},
			[]string{"rule"},
		),
		summaryStrategy: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_summary_strategy_total",
				Help: "Printed summary extractions, by strategy.",
			},
			[]string{"strategy"},
		),
		documentDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_document_duration_seconds",
				Help:    "Time to analyze one document.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// IncrDocument counts one analyzed document.
func (m *Metrics) IncrDocument(dialect, status string) {
	m.documents.WithLabelValues(dialect, status).Inc()
}

// AddTransactions counts n transactions produced by path.
func (m *Metrics) AddTransactions(path string, n int) {
	m.transactions.WithLabelValues(path).Add(float64(n))
}

// IncrRule counts one fired direction rule.
func (m *Metrics) IncrRule(rule string) {
	m.inferenceRules.WithLabelValues(rule).Inc()
}

// IncrSummaryStrategy counts one summary extraction. An empty strategy is
// recorded as "none".
func (m *Metrics) IncrSummaryStrategy(strategy string) {
	if strategy == "" {
		strategy = "none"
	}
	m.summaryStrategy.WithLabelValues(strategy).Inc()
}

// RecordDocumentDuration records how long one document took.
func (m *Metrics) RecordDocumentDuration(d time.Duration) {
	m.documentDuration.Observe(d.Seconds())
}

// DocumentCount returns the current value of the documents counter.
func (m *Metrics) DocumentCount(dialect, status string) float64 {
	return getCounterValue(m.documents, dialect, status)
}

// TransactionCount returns the current value of the transactions counter.
func (m *Metrics) TransactionCount(path string) float64 {
	return getCounterValue(m.transactions, path)
}

// RuleCount returns how often rule has fired.
func (m *Metrics) RuleCount(rule string) float64 {
	return getCounterValue(m.inferenceRules, rule)
}

// getCounterValue extracts the current float64 value from a CounterVec.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
