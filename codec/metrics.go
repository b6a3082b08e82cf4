package codec

import (
	"time"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes metric names when NewMetrics is given none.
const DefaultNamespace = "restcodec"

const (
	directionSerialize   = "serialize"
	directionDeserialize = "deserialize"
)

// Metrics holds Prometheus collectors for codec calls.
type Metrics struct {
	callsTotal   *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
}

// NewMetrics creates unregistered collectors under namespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Metrics{
		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "codec",
				Name:      "calls_total",
				Help:      "Total number of serialize and deserialize calls by outcome",
			},
			[]string{"direction", "operation", "outcome"},
		),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "codec",
				Name:      "call_duration_seconds",
				Help:      "Time spent serializing commands and deserializing responses",
				Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
			[]string{"direction", "operation"},
		),
	}
}

// Collectors returns the collectors for custom registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.callsTotal, m.callDuration}
}

// Register registers every collector with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// observe records one call. Outcomes are "ok" or the error kind.
func (m *Metrics) observe(direction, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.callsTotal.WithLabelValues(direction, operation, codecerrors.Kind(err)).Inc()
	m.callDuration.WithLabelValues(direction, operation).Observe(time.Since(start).Seconds())
}
