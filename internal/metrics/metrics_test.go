package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsNoPanic(t *testing.T) {
	var m *Metrics
	m.SetComponentCount(3)
	m.ObservePoll(time.Millisecond)
	m.SetMQTTConnected("broker", true)
	if got := m.Registry(); got != nil {
		t.Errorf("Registry() on nil Metrics = %v, want nil", got)
	}
}

func TestSetComponentCount(t *testing.T) {
	m := New()
	m.SetComponentCount(7)
	if got := testutil.ToFloat64(m.componentCount); got != 7 {
		t.Errorf("componentCount = %v, want 7", got)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	m := New()
	m.SetMQTTConnected("broker-1", true)
	if got := testutil.ToFloat64(m.mqttConnected.WithLabelValues("broker-1")); got != 1 {
		t.Errorf("mqtt_connected{client=broker-1} = %v, want 1", got)
	}

	m.SetMQTTConnected("broker-1", false)
	if got := testutil.ToFloat64(m.mqttConnected.WithLabelValues("broker-1")); got != 0 {
		t.Errorf("mqtt_connected{client=broker-1} = %v, want 0", got)
	}
}

func TestObservePoll(t *testing.T) {
	m := New()
	m.ObservePoll(40 * time.Millisecond)
	if got := testutil.CollectAndCount(m.pollDuration); got != 1 {
		t.Errorf("pollDuration sample count = %d, want 1", got)
	}
}
