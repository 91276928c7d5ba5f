// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing,
// which keeps call sites free of nil checks in tests.
type Metrics struct {
	ExpensesCreated  *prometheus.CounterVec
	SplitRejections  *prometheus.CounterVec
	BalanceSheetRead *prometheus.CounterVec
	RPCDuration      *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ExpensesCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitbook",
			Name:      "expenses_created_total",
			Help:      "Expenses recorded, by split method.",
		}, []string{"split_method"}),
		SplitRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitbook",
			Name:      "split_rejections_total",
			Help:      "Expense creations rejected before any write, by split method.",
		}, []string{"split_method"}),
		BalanceSheetRead: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitbook",
			Name:      "balance_sheet_reads_total",
			Help:      "Balance sheet computations, by scope (user or overall).",
		}, []string{"scope"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitbook",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
}

// ExpenseCreated counts a committed expense under its split method.
func (m *Metrics) ExpenseCreated(method string) {
	if m == nil {
		return
	}
	m.ExpensesCreated.WithLabelValues(method).Inc()
}

// SplitRejected counts a creation rejected before any write. method is
// "unknown" when the split method itself did not parse.
func (m *Metrics) SplitRejected(method string) {
	if m == nil {
		return
	}
	m.SplitRejections.WithLabelValues(method).Inc()
}

// BalanceRead counts a balance sheet computation; scope is "user" or "overall".
func (m *Metrics) BalanceRead(scope string) {
	if m == nil {
		return
	}
	m.BalanceSheetRead.WithLabelValues(scope).Inc()
}

// ObserveRPC records the latency of one RPC under its procedure and result code.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RPCDuration.WithLabelValues(procedure, code).Observe(seconds)
}
