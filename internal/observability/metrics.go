package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the session runtime.
type Metrics struct {
	SessionEvents  *prometheus.CounterVec
	Turns          *prometheus.CounterVec
	RejectedSends  *prometheus.CounterVec
	EmotionChanges *prometheus.CounterVec
	TurnLatency    prometheus.Histogram
	SessionPhase   prometheus.Gauge

	latency *latencyWindow
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session lifecycle events by type (login, ready, logout).",
		}, []string{"event"}),
		Turns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Completed conversation turns by outcome.",
		}, []string{"outcome"}),
		RejectedSends: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_sends_total",
			Help:      "Send attempts rejected before dispatch, by reason.",
		}, []string{"reason"}),
		EmotionChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emotion_changes_total",
			Help:      "Theme emotion updates by label.",
		}, []string{"emotion"}),
		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_latency_ms",
			Help:      "Backend round-trip latency per turn in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000},
		}),
		SessionPhase: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_phase",
			Help:      "Current session phase (0 unauthenticated, 1 initializing, 2 active).",
		}),
		latency: newLatencyWindow(256),
	}
}

// ObserveTurnLatency feeds both the Prometheus histogram and the rolling
// window behind the perf endpoint.
func (m *Metrics) ObserveTurnLatency(d time.Duration) {
	ms := float64(d.Milliseconds())
	m.TurnLatency.Observe(ms)
	m.latency.Observe(ms)
}

// LatencySnapshot reports recent turn latency percentiles.
func (m *Metrics) LatencySnapshot() LatencySnapshot {
	return m.latency.Snapshot()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
