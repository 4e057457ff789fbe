package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	evaluations    *prometheus.HistogramVec
	gateRejections *prometheus.CounterVec
	confidence     *prometheus.HistogramVec
	errorsTotal    *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		evaluations: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradepulse_evaluation_duration_seconds",
				Help:    "Duration of tier evaluations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tier", "outcome"},
		),
		gateRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradepulse_gate_rejections_total",
				Help: "Total number of tier gate rejections",
			},
			[]string{"tier", "reason"},
		),
		confidence: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradepulse_signal_confidence",
				Help:    "Confidence of emitted signals",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
			[]string{"tier"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradepulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradepulse_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordEvaluation records one tier evaluation with its outcome label
// (emitted, gate_rejected, direction_unresolved, error).
func (r *Recorder) RecordEvaluation(tier, outcome string, seconds float64) {
	r.evaluations.WithLabelValues(tier, outcome).Observe(seconds)
}

// RecordGateRejection counts a gate rejection by reason.
func (r *Recorder) RecordGateRejection(tier, reason string) {
	r.gateRejections.WithLabelValues(tier, reason).Inc()
}

// RecordSignalConfidence records the confidence of an emitted signal.
func (r *Recorder) RecordSignalConfidence(tier string, confidence float64) {
	r.confidence.WithLabelValues(tier).Observe(confidence)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}
