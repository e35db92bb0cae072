package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "eventdesk_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	documentsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "documents_created_total",
			Help: "Documents created by kind",
		},
		[]string{"kind"},
	)
	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "dispatch_total",
			Help: "Document dispatch attempts by kind and result",
		},
		[]string{"kind", "result"},
	)
	dispatchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "dispatch_latency_seconds",
			Help:    "Render and send latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)
)

// Register adds the collectors to reg. Subsequent calls are no-ops.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(documentsCreated, dispatchTotal, dispatchLatency, httpRequests)
	})
}

func ObserveDocumentCreated(kind string) {
	documentsCreated.WithLabelValues(kind).Inc()
}

func ObserveDispatch(kind, result string, elapsed time.Duration) {
	dispatchTotal.WithLabelValues(kind, result).Inc()
	dispatchLatency.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func ObserveHTTPRequest(method, route, status string) {
	httpRequests.WithLabelValues(method, route, status).Inc()
}
