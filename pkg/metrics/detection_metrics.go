// Package metrics provides Prometheus metrics for the meeting
// classification pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// detectionsTotal records completed classifications.
	// Labels:
	//   - workspace: selected workspace id
	//   - confidence: workspace confidence bucket (low/medium/high)
	detectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_detections_total",
			Help: "Total number of completed meeting classifications",
		},
		[]string{"workspace", "confidence"},
	)

	// combinationMatchesTotal records combination trigger hits that
	// bypassed per-module scoring.
	combinationMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_combination_matches_total",
			Help: "Total number of classifications resolved by a combination match",
		},
		[]string{"combination"},
	)

	// providerRequestsTotal records outbound generative-model calls.
	// Labels:
	//   - tier: model tier (lightweight/standard/large-context)
	//   - status: success, failed or timeout
	providerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of generative-model provider calls",
		},
		[]string{"tier", "status"},
	)

	// providerDuration records provider call latency per tier.
	// Buckets cover the observed 120-180s timeout range.
	providerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Duration of generative-model provider calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 180},
		},
		[]string{"tier"},
	)

	// catalogEntities exposes how many definitions the current snapshot
	// holds, per kind (workspace/module/combination).
	catalogEntities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_loaded_entities",
			Help: "Number of definitions loaded in the current catalog snapshot",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(detectionsTotal)
	prometheus.MustRegister(combinationMatchesTotal)
	prometheus.MustRegister(providerRequestsTotal)
	prometheus.MustRegister(providerDuration)
	prometheus.MustRegister(catalogEntities)
}

// RecordDetection records one completed classification.
func RecordDetection(workspace, confidence string) {
	detectionsTotal.WithLabelValues(workspace, confidence).Inc()
}

// RecordCombinationMatch records a combination trigger hit.
func RecordCombinationMatch(combination string) {
	combinationMatchesTotal.WithLabelValues(combination).Inc()
}

// RecordProviderRequest records the outcome of a provider call.
func RecordProviderRequest(tier, status string) {
	providerRequestsTotal.WithLabelValues(tier, status).Inc()
}

// RecordProviderDuration records the latency of a provider call.
func RecordProviderDuration(tier string, seconds float64) {
	providerDuration.WithLabelValues(tier).Observe(seconds)
}

// SetCatalogEntities publishes snapshot entity counts after a (re)load.
func SetCatalogEntities(workspaces, modules, combinations int) {
	catalogEntities.WithLabelValues("workspace").Set(float64(workspaces))
	catalogEntities.WithLabelValues("module").Set(float64(modules))
	catalogEntities.WithLabelValues("combination").Set(float64(combinations))
}
