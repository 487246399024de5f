package dashboard

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serverMetrics holds the Prometheus instrumentation for the dashboard.
// Each Server owns its own registry so tests can spin up servers freely.
type serverMetrics struct {
	registry *prometheus.Registry

	pageRenders       *prometheus.CounterVec
	appends           *prometheus.CounterVec
	storeReadFailures prometheus.Counter
}

func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		pageRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pvs_tracker_page_renders_total",
			Help: "Number of dashboard page renders, by page.",
		}, []string{"page"}),
		appends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pvs_tracker_appends_total",
			Help: "Number of observation append attempts, by result.",
		}, []string{"result"}),
		storeReadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pvs_tracker_store_read_failures_total",
			Help: "Number of failed store reads on the render path.",
		}),
	}

	m.registry.MustRegister(m.pageRenders, m.appends, m.storeReadFailures)
	return m
}

func (m *serverMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
