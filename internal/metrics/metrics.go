// Package metrics provides the centralized Prometheus registry for the
// value detector.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	FixturesEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "footy_value",
		Name:      "fixtures_evaluated_total",
		Help:      "Total number of fixtures evaluated",
	})
	FixturesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "footy_value",
		Name:      "fixtures_skipped_total",
		Help:      "Total number of fixtures skipped, by reason",
	}, []string{"reason"})
	OpportunitiesAcceptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "footy_value",
		Name:      "opportunities_accepted_total",
		Help:      "Total number of accepted value opportunities",
	})
	ResultsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "footy_value",
		Name:      "results_settled_total",
		Help:      "Total number of settled predictions, by outcome",
	}, []string{"outcome"})
	ProviderErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "footy_value",
		Name:      "provider_errors_total",
		Help:      "Total number of data provider errors, by code",
	}, []string{"code"})
	NotificationsSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "footy_value",
		Name:      "notifications_sent_total",
		Help:      "Total number of alert notifications sent",
	})
)

// Gauge metrics
var (
	LastAnalysisOpportunities = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "footy_value",
		Name:      "last_analysis_opportunities",
		Help:      "Accepted opportunities found by the most recent analysis run",
	})
	LastAnalysisTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "footy_value",
		Name:      "last_analysis_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed analysis run",
	})
	RollingWinRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "footy_value",
		Name:      "rolling_win_rate",
		Help:      "Win rate across the trailing performance window",
	})
	RollingROI = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "footy_value",
		Name:      "rolling_roi",
		Help:      "Return on investment across the trailing performance window",
	})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "footy_value",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of full analysis runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600},
	})
	EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "footy_value",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of single-fixture evaluations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(FixturesEvaluatedTotal)
		registry.MustRegister(FixturesSkippedTotal)
		registry.MustRegister(OpportunitiesAcceptedTotal)
		registry.MustRegister(ResultsSettledTotal)
		registry.MustRegister(ProviderErrorsTotal)
		registry.MustRegister(NotificationsSentTotal)

		registry.MustRegister(LastAnalysisOpportunities)
		registry.MustRegister(LastAnalysisTimestamp)
		registry.MustRegister(RollingWinRate)
		registry.MustRegister(RollingROI)

		registry.MustRegister(AnalysisDuration)
		registry.MustRegister(EvaluationDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordFixtureEvaluated records one completed fixture evaluation.
func RecordFixtureEvaluated(durationSeconds float64) {
	FixturesEvaluatedTotal.Inc()
	EvaluationDuration.Observe(durationSeconds)
}

// RecordFixtureSkipped records a fixture that could not be evaluated.
func RecordFixtureSkipped(reason string) {
	FixturesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordOpportunityAccepted records an accepted value opportunity.
func RecordOpportunityAccepted() {
	OpportunitiesAcceptedTotal.Inc()
}

// RecordResultSettled records a settled prediction outcome ("hit" or "miss").
func RecordResultSettled(outcome string) {
	ResultsSettledTotal.WithLabelValues(outcome).Inc()
}

// RecordProviderError records a data provider failure by error code.
func RecordProviderError(code string) {
	ProviderErrorsTotal.WithLabelValues(code).Inc()
}

// RecordNotificationSent records one delivered alert.
func RecordNotificationSent() {
	NotificationsSentTotal.Inc()
}

// RecordAnalysisRun records the outcome of a full analysis run.
func RecordAnalysisRun(opportunities int, durationSeconds float64, completedAtUnix float64) {
	LastAnalysisOpportunities.Set(float64(opportunities))
	LastAnalysisTimestamp.Set(completedAtUnix)
	AnalysisDuration.Observe(durationSeconds)
}

// UpdatePerformance updates the rolling performance gauges.
func UpdatePerformance(winRate, roi float64) {
	RollingWinRate.Set(winRate)
	RollingROI.Set(roi)
}
