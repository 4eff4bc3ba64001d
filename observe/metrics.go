package observe

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics exposes the scheduler's runtime counters under the
// "flowsched" namespace: per-action queue depth, worker pool running/pending
// task counts, in-flight frontier count, tick duration, and cumulative
// error/timer-fire totals.
type PrometheusMetrics struct {
	queueDepth    *prometheus.GaugeVec
	runningTasks  prometheus.Gauge
	pendingTasks  prometheus.Gauge
	frontierCount prometheus.Gauge
	tickDuration  prometheus.Histogram

	actionErrors *prometheus.CounterVec
	timerFires   prometheus.Counter

	mu      sync.RWMutex
	enabled bool
}

// NewPrometheusMetrics registers the scheduler's metric set with registry
// (prometheus.DefaultRegisterer if nil) and returns the collector.
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &PrometheusMetrics{
		enabled: true,
		queueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "flowsched",
			Name:      "queue_depth",
			Help:      "Number of frontier handles queued for a given action node.",
		}, []string{"node"}),
		runningTasks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowsched",
			Name:      "running_tasks",
			Help:      "Tasks currently executing in the worker pool.",
		}),
		pendingTasks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowsched",
			Name:      "pending_tasks",
			Help:      "Tasks queued in the worker pool but not yet running.",
		}),
		frontierCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowsched",
			Name:      "frontier_count",
			Help:      "In-flight frontiers held by the executor's slab.",
		}),
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flowsched",
			Name:      "tick_duration_ms",
			Help:      "Wall-clock duration of one tick loop iteration, in milliseconds.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000},
		}),
		actionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowsched",
			Name:      "action_errors_total",
			Help:      "Action errors routed through the tick loop's error policy.",
		}, []string{"node"}),
		timerFires: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "flowsched",
			Name:      "timer_fires_total",
			Help:      "Timer queue entries that have fired.",
		}),
	}
}

// SetQueueDepth records the current queue length for a named action node.
func (m *PrometheusMetrics) SetQueueDepth(node string, depth int) {
	if m == nil || !m.enabled {
		return
	}
	m.queueDepth.WithLabelValues(node).Set(float64(depth))
}

// SetWorkerCounts records the worker pool's running/pending task counts.
func (m *PrometheusMetrics) SetWorkerCounts(running, pending int64) {
	if m == nil || !m.enabled {
		return
	}
	m.runningTasks.Set(float64(running))
	m.pendingTasks.Set(float64(pending))
}

// SetFrontierCount records the executor's current in-flight frontier count.
func (m *PrometheusMetrics) SetFrontierCount(n int) {
	if m == nil || !m.enabled {
		return
	}
	m.frontierCount.Set(float64(n))
}

// ObserveTickDuration records one tick iteration's wall-clock duration.
func (m *PrometheusMetrics) ObserveTickDuration(ms float64) {
	if m == nil || !m.enabled {
		return
	}
	m.tickDuration.Observe(ms)
}

// IncActionError increments the error counter for a named action node.
func (m *PrometheusMetrics) IncActionError(node string) {
	if m == nil || !m.enabled {
		return
	}
	m.actionErrors.WithLabelValues(node).Inc()
}

// IncTimerFire increments the cumulative timer-fire counter.
func (m *PrometheusMetrics) IncTimerFire() {
	if m == nil || !m.enabled {
		return
	}
	m.timerFires.Inc()
}
