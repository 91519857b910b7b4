package metrics

import (
	"time"

	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusMetrics records event bus dispatch as Prometheus series. It implements
// eventbus.Observer.
type BusMetrics struct {
	listenerDuration *prometheus.HistogramVec
	listenerFailures *prometheus.CounterVec
	emissions        *prometheus.CounterVec
	emissionDuration *prometheus.HistogramVec
}

var _ eventbus.Observer = (*BusMetrics)(nil)

// NewBusMetrics registers the bus series on reg.
func NewBusMetrics(reg prometheus.Registerer) *BusMetrics {
	f := promauto.With(reg)
	return &BusMetrics{
		listenerDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "eventbus",
			Name:      "listener_duration_seconds",
			Help:      "Time spent in a single listener invocation.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"topic", "kind"}),
		listenerFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eventbus",
			Name:      "listener_failures_total",
			Help:      "Listener invocations that returned an error or panicked.",
		}, []string{"topic", "kind"}),
		emissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eventbus",
			Name:      "emissions_total",
			Help:      "Events emitted, by topic.",
		}, []string{"topic"}),
		emissionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "eventbus",
			Name:      "emission_duration_seconds",
			Help:      "Time to dispatch an event to every matched listener.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"topic"}),
	}
}

func (m *BusMetrics) ListenerDone(topic eventbus.Topic, kind eventbus.Kind, err error, elapsed time.Duration) {
	m.listenerDuration.WithLabelValues(string(topic), kind.String()).Observe(elapsed.Seconds())
	if err != nil {
		m.listenerFailures.WithLabelValues(string(topic), kind.String()).Inc()
	}
}

func (m *BusMetrics) EmissionDone(topic eventbus.Topic, listeners, failures int, elapsed time.Duration) {
	m.emissions.WithLabelValues(string(topic)).Inc()
	m.emissionDuration.WithLabelValues(string(topic)).Observe(elapsed.Seconds())
}
