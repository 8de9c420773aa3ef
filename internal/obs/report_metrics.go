package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes recorded by ReportMetrics.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// ReportMetrics groups the collectors describing report runs.
type ReportMetrics struct {
	RunsTotal   *prometheus.CounterVec
	RowsSkipped *prometheus.CounterVec
	RunDuration prometheus.Histogram
	Customers   prometheus.Gauge
	GrandTotal  prometheus.Gauge
}

// NewReportMetrics registers and returns the report run collectors.
func NewReportMetrics(namespace string, reg prometheus.Registerer) *ReportMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &ReportMetrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_runs_total",
			Help:      "Count of report runs by outcome.",
		}, []string{"outcome"}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_rows_skipped_total",
			Help:      "Input rows dropped because a numeric field did not parse.",
		}, []string{"source"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_run_duration_ms",
			Help:      "Report run latency in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		Customers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_customers",
			Help:      "Customers in the last successful report.",
		}),
		GrandTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_grand_total",
			Help:      "Grand total of the last successful report.",
		}),
	}
	m.RunsTotal = register(reg, m.RunsTotal)
	m.RowsSkipped = register(reg, m.RowsSkipped)
	m.RunDuration = register(reg, m.RunDuration)
	m.Customers = register(reg, m.Customers)
	m.GrandTotal = register(reg, m.GrandTotal)
	return m
}

// ObserveSkipped adds skipped row counts keyed by source.
func (m *ReportMetrics) ObserveSkipped(counts map[string]int) {
	if m == nil {
		return
	}
	for source, n := range counts {
		m.RowsSkipped.WithLabelValues(source).Add(float64(n))
	}
}

// ObserveRun records the outcome and duration of a run. Customer count and
// grand total are only updated on success.
func (m *ReportMetrics) ObserveRun(outcome string, d time.Duration, customers int, grandTotal float64) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(DurationMillis(d))
	if outcome == OutcomeSuccess {
		m.Customers.Set(float64(customers))
		m.GrandTotal.Set(grandTotal)
	}
}
