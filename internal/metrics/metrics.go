// Package metrics exposes the daemon's self-report as Prometheus
// collectors (spec's original_source/statistics.hpp periodic dump,
// reworked as scrape-on-demand metrics) and a chi-routed status HTTP
// server to serve them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the daemon's collector set. A nil *Metrics is valid and every
// method is a no-op on it, the same nil-safety contract as monitor.Bus, so
// components can hold it unconditionally.
type Metrics struct {
	registry       *prometheus.Registry
	componentCount prometheus.Gauge
	pollDuration   prometheus.Histogram
	mqttConnected  *prometheus.GaugeVec
}

// New builds a Metrics with its own registry, independent of
// prometheus.DefaultRegisterer so tests can build one per case.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		componentCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "schlazicontrol",
			Name:      "components",
			Help:      "Number of constructed components.",
		}),
		pollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "schlazicontrol",
			Name:      "poll_tick_seconds",
			Help:      "Elapsed wall-clock time between reactor poll ticks.",
			Buckets:   prometheus.DefBuckets,
		}),
		mqttConnected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "schlazicontrol",
			Name:      "mqtt_connected",
			Help:      "1 if the named MQTT standalone component is connected, 0 otherwise.",
		}, []string{"client"}),
	}
	reg.MustRegister(m.componentCount, m.pollDuration, m.mqttConnected)
	return m
}

// Registry returns the collector registry for mounting behind promhttp.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// SetComponentCount records the number of components the manager owns.
func (m *Metrics) SetComponentCount(n int) {
	if m == nil {
		return
	}
	m.componentCount.Set(float64(n))
}

// ObservePoll records one reactor tick's elapsed duration.
func (m *Metrics) ObservePoll(d time.Duration) {
	if m == nil {
		return
	}
	m.pollDuration.Observe(d.Seconds())
}

// SetMQTTConnected records client's current broker connection state.
func (m *Metrics) SetMQTTConnected(client string, connected bool) {
	if m == nil {
		return
	}
	v := 0.0
	if connected {
		v = 1.0
	}
	m.mqttConnected.WithLabelValues(client).Set(v)
}
