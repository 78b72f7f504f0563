package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "feeder"

// Metrics exposes feeder telemetry as Prometheus series.
type Metrics struct {
	registry *prometheus.Registry

	dispatches *prometheus.CounterVec
	angle      *prometheus.GaugeVec
	weight     *prometheus.GaugeVec
}

var _ Recorder = (*Metrics)(nil)

// NewMetrics registers the feeder collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Commands dispatched to the device by audit command and result.",
		}, []string{"device_id", "command", "result"}),
		angle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_dispense_angle_degrees",
			Help:      "Servo angle of the most recent dispatched command.",
		}, []string{"device_id"}),
		weight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bowl_weight_grams",
			Help:      "Latest bowl weight reported by the device.",
		}, []string{"device_id"}),
	}
	m.registry.MustRegister(m.dispatches, m.angle, m.weight)
	return m
}

func (m *Metrics) RecordWeight(deviceID string, grams float64) {
	m.weight.WithLabelValues(deviceID).Set(grams)
}

func (m *Metrics) RecordDispense(deviceID, command string, angle float64, result string) {
	m.dispatches.WithLabelValues(deviceID, command, result).Inc()
	m.angle.WithLabelValues(deviceID).Set(angle)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
