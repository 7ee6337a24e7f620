package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Assessment metrics
	assessmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_assessments_total",
			Help: "Total number of risk assessments performed",
		},
		[]string{"symbol", "approved"},
	)

	riskScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "risk_overall_score",
			Help: "Overall risk score of the latest assessment (0-100)",
		},
		[]string{"symbol"},
	)

	recommendedSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "risk_recommended_position_size",
			Help:    "Distribution of recommended position sizes",
			Buckets: prometheus.ExponentialBuckets(10, 2, 12),
		},
		[]string{"symbol"},
	)

	// Trailing engine metrics
	stopAdjustmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_stop_adjustments_total",
			Help: "Total number of accepted trailing stop adjustments",
		},
		[]string{"symbol"},
	)

	targetAdjustmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_target_adjustments_total",
			Help: "Total number of accepted take-profit adjustments",
		},
		[]string{"symbol"},
	)

	// Degradation metrics
	fallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_component_fallbacks_total",
			Help: "Total number of component fallbacks to a degraded result",
		},
		[]string{"component"},
	)
)

func init() {
	prometheus.MustRegister(assessmentsTotal)
	prometheus.MustRegister(riskScore)
	prometheus.MustRegister(recommendedSize)
	prometheus.MustRegister(stopAdjustmentsTotal)
	prometheus.MustRegister(targetAdjustmentsTotal)
	prometheus.MustRegister(fallbacksTotal)
}

// Handler returns the Prometheus metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAssessment records the outcome of one assessment.
func RecordAssessment(symbol string, approved bool, score, size float64) {
	approvedLabel := "false"
	if approved {
		approvedLabel = "true"
	}
	assessmentsTotal.WithLabelValues(symbol, approvedLabel).Inc()
	riskScore.WithLabelValues(symbol).Set(score)
	recommendedSize.WithLabelValues(symbol).Observe(size)
}

// RecordStopAdjustment records an accepted trailing stop move.
func RecordStopAdjustment(symbol string) {
	stopAdjustmentsTotal.WithLabelValues(symbol).Inc()
}

// RecordTargetAdjustment records an accepted take-profit ratchet.
func RecordTargetAdjustment(symbol string) {
	targetAdjustmentsTotal.WithLabelValues(symbol).Inc()
}

// RecordFallback records a component degrading to its documented fallback.
func RecordFallback(component string) {
	fallbacksTotal.WithLabelValues(component).Inc()
}
