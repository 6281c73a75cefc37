package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	SourceAttempts      *prometheus.CounterVec
	Replies             *prometheus.CounterVec
	PersistenceFailures prometheus.Counter
	BiographyRuns       *prometheus.CounterVec
	WSMessages          *prometheus.CounterVec
	ReplyLatency        prometheus.Histogram

	Window *LatencyWindow
}

// NewMetrics registers the instruments with the default Prometheus registry.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer, namespace)
}

// NewMetricsWith registers the instruments with reg. Short-lived processes pass
// a private registry so repeated construction does not collide.
func NewMetricsWith(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SourceAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_attempts_total",
			Help:      "Generation source attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		Replies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Chat replies by the component that produced them.",
		}, []string{"source"}),
		PersistenceFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Turns that could not be appended to the store.",
		}),
		BiographyRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "biography_runs_total",
			Help:      "Biography syntheses by result.",
		}, []string{"result"}),
		WSMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "WebSocket messages by direction and type.",
		}, []string{"direction", "type"}),
		ReplyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reply_latency_ms",
			Help:      "End to end chat reply latency in milliseconds.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2000, 4000, 8000, 16000},
		}),
		Window: NewLatencyWindow(0),
	}
}

func (m *Metrics) ObserveSourceAttempt(source, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.SourceAttempts.WithLabelValues(source, outcome).Inc()
	m.Window.Observe("source:"+source, d)
	m.Window.CountOutcome(source + ":" + outcome)
}

func (m *Metrics) ObserveReply(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.Replies.WithLabelValues(source).Inc()
	m.ReplyLatency.Observe(float64(d.Milliseconds()))
	m.Window.Observe("reply_total", d)
}

func (m *Metrics) ObservePersistenceFailure() {
	if m == nil {
		return
	}
	m.PersistenceFailures.Inc()
}

func (m *Metrics) ObserveBiography(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.BiographyRuns.WithLabelValues(result).Inc()
	m.Window.Observe("biography_total", d)
}

func (m *Metrics) ObserveWSMessage(direction, messageType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, messageType).Inc()
}

// LatencySnapshot returns the rolling latency view served on /v1/perf/sources.
func (m *Metrics) LatencySnapshot() LatencySnapshot {
	if m == nil {
		return LatencySnapshot{GeneratedAt: time.Now().UTC()}
	}
	return m.Window.Snapshot()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
