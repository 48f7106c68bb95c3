package resolver

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cache and resolution outcomes. A nil *Metrics records
// nothing.
type Metrics struct {
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	failures    *prometheus.CounterVec
	unresolved  prometheus.Counter
	stitchPairs *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "signaleditor",
			Subsystem: "resolver",
			Name:      "cache_hits_total",
			Help:      "Route documents served from the resolver cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "signaleditor",
			Subsystem: "resolver",
			Name:      "cache_misses_total",
			Help:      "Route documents fetched from the store.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signaleditor",
			Subsystem: "resolver",
			Name:      "failures_total",
			Help:      "Failed import resolutions by reason.",
		}, []string{"reason"}),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "signaleditor",
			Subsystem: "resolver",
			Name:      "unresolved_imports_total",
			Help:      "Imports passed through unresolved while flattening.",
		}),
		stitchPairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signaleditor",
			Subsystem: "resolver",
			Name:      "stitch_pairs_total",
			Help:      "Adjacent import pairs seen by auto-stitch by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.cacheHits, m.cacheMisses, m.failures, m.unresolved, m.stitchPairs)
	return m
}

func (m *Metrics) hit() {
	if m != nil {
		m.cacheHits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.cacheMisses.Inc()
	}
}

func (m *Metrics) failure(reason string) {
	if m != nil {
		m.failures.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) unresolvedImport() {
	if m != nil {
		m.unresolved.Inc()
	}
}

func (m *Metrics) stitch(result string) {
	if m != nil {
		m.stitchPairs.WithLabelValues(result).Inc()
	}
}
