package observe

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusMetricsRecord(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewPrometheusMetrics(registry)

	m.SetQueueDepth("square", 4)
	m.SetWorkerCounts(2, 5)
	m.SetFrontierCount(7)
	m.ObserveTickDuration(1.5)
	m.IncActionError("square")
	m.IncTimerFire()

	if got := testutil.ToFloat64(m.queueDepth.WithLabelValues("square")); got != 4 {
		t.Fatalf("queue depth = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.frontierCount); got != 7 {
		t.Fatalf("frontier count = %v, want 7", got)
	}
	if got := testutil.ToFloat64(m.timerFires); got != 1 {
		t.Fatalf("timer fires = %v, want 1", got)
	}
}

func TestPrometheusMetricsNilSafe(t *testing.T) {
	var m *PrometheusMetrics
	// A nil *PrometheusMetrics must be safe to call through, so scheduler
	// code can unconditionally record metrics without a nil check at every
	// call site.
	m.SetQueueDepth("x", 1)
	m.IncTimerFire()
}
