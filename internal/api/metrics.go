package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the HTTP request metrics.
type Metrics struct {
	httpDuration  *prometheus.HistogramVec
	totalRequests *prometheus.CounterVec
	exportJobs    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "signaleditor",
			Name:      "request_duration_seconds",
			Help:      "The duration of requests",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "path"}),
		totalRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signaleditor",
			Name:      "requests_total",
			Help:      "The total number of requests",
		}, []string{"path", "method", "status"}),
		exportJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signaleditor",
			Name:      "export_jobs_total",
			Help:      "Submitted report exports by outcome of the submission",
		}, []string{"result"}),
	}
	reg.MustRegister(m.httpDuration, m.totalRequests, m.exportJobs)
	return m
}

func (m *Metrics) exportSubmitted(result string) {
	if m != nil {
		m.exportJobs.WithLabelValues(result).Inc()
	}
}

// PromMiddleware records duration and status per route pattern. A nil
// *Metrics records nothing.
func PromMiddleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
				m.httpDuration.WithLabelValues(r.Method, routePattern(r)).Observe(v)
			}))

			next.ServeHTTP(sw, r)

			timer.ObserveDuration()
			m.totalRequests.WithLabelValues(routePattern(r), r.Method, strconv.Itoa(sw.status)).Inc()
		})
	}
}

// routePattern labels by pattern, not raw path, so ids and file names do
// not become label values.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
