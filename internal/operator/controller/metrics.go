package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	// Reconciliation metrics
	reconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "museumctl",
			Subsystem: "controller",
			Name:      "reconcile_total",
			Help:      "Total number of reconciliations by result",
		},
		[]string{"component", "result"},
	)

	reconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "museumctl",
			Subsystem: "controller",
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of reconciliation in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		},
		[]string{"component"},
	)

	// Composition metrics
	composeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "museumctl",
			Subsystem: "controller",
			Name:      "compose_total",
			Help:      "Total number of graph compositions by result",
		},
		[]string{"component", "result"},
	)

	// Apply metrics
	applyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "museumctl",
			Subsystem: "controller",
			Name:      "apply_total",
			Help:      "Total number of engine apply runs by result",
		},
		[]string{"component", "result"},
	)

	applyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "museumctl",
			Subsystem: "controller",
			Name:      "apply_duration_seconds",
			Help:      "Duration of engine apply runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
		},
		[]string{"component"},
	)
)

func init() {
	// Register metrics with controller-runtime's registry
	metrics.Registry.MustRegister(
		reconcileTotal,
		reconcileDuration,
		composeTotal,
		applyTotal,
		applyDuration,
	)
}

// recordReconcileMetric records a reconciliation result.
func recordReconcileMetric(component, result string, duration float64) {
	reconcileTotal.WithLabelValues(component, result).Inc()
	reconcileDuration.WithLabelValues(component).Observe(duration)
}

// recordComposeMetric records a composition result.
func recordComposeMetric(component, result string) {
	composeTotal.WithLabelValues(component, result).Inc()
}

// recordApplyMetric records an engine apply run.
func recordApplyMetric(component, result string, duration float64) {
	applyTotal.WithLabelValues(component, result).Inc()
	applyDuration.WithLabelValues(component).Observe(duration)
}

// Metrics helper methods that check enableMetrics before recording.

func (r *ChartMuseumReconciler) recordReconcile(component, result string, duration float64) {
	if r.enableMetrics {
		recordReconcileMetric(component, result, duration)
	}
}

func (r *ChartMuseumReconciler) recordCompose(component, result string) {
	if r.enableMetrics {
		recordComposeMetric(component, result)
	}
}

func (r *ChartMuseumReconciler) recordApply(component, result string, duration float64) {
	if r.enableMetrics {
		recordApplyMetric(component, result, duration)
	}
}
