package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResourceOperations counts resource operations by resource, operation
	// (index|show|create|update|delete|metrics) and result (success|failure).
	ResourceOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nebula_resource_operations_total",
			Help: "Total number of resource operations",
		},
		[]string{"resource", "operation", "result"},
	)

	// ValidationFailures counts rejected submissions per resource.
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nebula_validation_failures_total",
			Help: "Total number of rejected resource submissions",
		},
		[]string{"resource"},
	)

	// RealtimeConnections tracks open websocket connections.
	RealtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nebula_realtime_connections",
			Help: "Number of open realtime connections",
		},
	)

	// AuditPruned counts audit log rows removed by retention cleanup.
	AuditPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nebula_audit_pruned_total",
			Help: "Total number of audit log entries removed by retention cleanup",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nebula_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Result maps an error to the result label value.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
