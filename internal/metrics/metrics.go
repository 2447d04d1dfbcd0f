package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the lifecycle core's domain counters.
type Metrics struct {
	TransitionsTotal *prometheus.CounterVec
	SideEffectErrors *prometheus.CounterVec
}

// New registers the domain counters on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		TransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "document_transitions_total",
				Help: "Total number of applied document status transitions.",
			},
			[]string{"from", "to"},
		),
		SideEffectErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "side_effect_errors_total",
				Help: "Post-commit collaborator failures that did not affect committed state.",
			},
			[]string{"collaborator"},
		),
	}
	if err := reg.Register(m.TransitionsTotal); err != nil {
		return nil, err
	}
	if err := reg.Register(m.SideEffectErrors); err != nil {
		return nil, err
	}
	return m, nil
}
