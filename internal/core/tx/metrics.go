package tx

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks transaction processing outcomes.
type Metrics struct {
	applied  *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewMetrics creates and registers engine metrics on the given registry.
func NewMetrics(r *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkswap",
			Name:      "tx_applied_total",
			Help:      "transactions applied to the ledger, by type",
		}, []string{"type"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkswap",
			Name:      "tx_rejected_total",
			Help:      "transactions rejected or rolled back, by type and result",
		}, []string{"type", "result"}),
	}
	if err := r.Register(m.applied); err != nil {
		return nil, err
	}
	if err := r.Register(m.rejected); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe records one transaction outcome.
func (m *Metrics) Observe(txType string, res Result) {
	if res.IsApplied() {
		m.applied.WithLabelValues(txType).Inc()
		return
	}
	m.rejected.WithLabelValues(txType, res.String()).Inc()
}
