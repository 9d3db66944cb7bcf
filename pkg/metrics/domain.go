package metrics

import "github.com/prometheus/client_golang/prometheus"

// DomainMetrics counts inventory mutations and login outcomes.
type DomainMetrics struct {
	mutations *prometheus.CounterVec
	logins    *prometheus.CounterVec
}

// NewDomainMetrics registers the domain counters on the provided registerer.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_mutations_total",
		Help: "Committed inventory mutations by location and kind.",
	}, []string{"location", "kind"})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(mutations, logins)
	return &DomainMetrics{mutations: mutations, logins: logins}
}

// IncMutation counts a committed add or edit at a location.
func (m *DomainMetrics) IncMutation(location, kind string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(location), normalizeLabel(kind)).Inc()
}

// IncLogin counts a login attempt by outcome (success, invalid, throttled).
func (m *DomainMetrics) IncLogin(outcome string) {
	if m == nil || m.logins == nil {
		return
	}
	m.logins.WithLabelValues(normalizeLabel(outcome)).Inc()
}
