package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics counts state-container activity.
type StoreMetrics struct {
	mutations       *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
}

// NewStoreMetrics registers the store metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_mutations_total",
		Help: "Mutations applied to a state container.",
	}, []string{"store", "op"})
	persistFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_persist_failures_total",
		Help: "Bucket writes that failed and were swallowed.",
	}, []string{"store"})
	reg.MustRegister(mutations, persistFailures)
	return &StoreMetrics{
		mutations:       mutations,
		persistFailures: persistFailures,
	}
}

// IncMutation increments the mutation counter for the named store and op.
func (s *StoreMetrics) IncMutation(store, op string) {
	if s == nil || s.mutations == nil {
		return
	}
	s.mutations.WithLabelValues(normalizeLabel(store), normalizeLabel(op)).Inc()
}

// IncPersistFailure increments the swallowed-write counter for the named store.
func (s *StoreMetrics) IncPersistFailure(store string) {
	if s == nil || s.persistFailures == nil {
		return
	}
	s.persistFailures.WithLabelValues(normalizeLabel(store)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
