package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts finished export jobs. A nil *Metrics records nothing.
type Metrics struct {
	finishedJobs *prometheus.CounterVec
	duration     prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer, queueDepth func() int) *Metrics {
	m := &Metrics{
		finishedJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signaleditor",
			Subsystem: "export",
			Name:      "finished_total",
			Help:      "Export jobs by final status",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "signaleditor",
			Subsystem: "export",
			Name:      "duration_seconds",
			Help:      "Time a worker spent on one export",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 6),
		}),
	}
	depth := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "signaleditor",
		Subsystem: "export",
		Name:      "queue_depth",
		Help:      "Export jobs waiting for a worker",
	}, func() float64 { return float64(queueDepth()) })

	reg.MustRegister(m.finishedJobs, m.duration, depth)
	return m
}

func (m *Metrics) finished(status JobStatus, took time.Duration) {
	if m == nil {
		return
	}
	m.finishedJobs.WithLabelValues(string(status)).Inc()
	if took > 0 {
		m.duration.Observe(took.Seconds())
	}
}
