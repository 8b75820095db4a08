package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors exposed on /metrics. Registered once at package
// load so that tests constructing the router repeatedly do not
// double-register.
var (
	// RequestsTotal counts HTTP requests by path and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "event_reporting",
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests by path and status code",
	}, []string{"path", "status"})

	// RequestDuration tracks HTTP request latency by path.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "event_reporting",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by path",
	}, []string{"path"})

	// DerivationRows records the row count returned by the last run of
	// each derivation.
	DerivationRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "event_reporting",
		Name:      "derivation_rows",
		Help:      "Row count returned by the last run of each derivation",
	}, []string{"derivation"})
)
