package scheduler

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/flowsched/flowsched/observe"
	"github.com/flowsched/flowsched/worker"
)

// strategyKind selects which worker.Strategy New builds, per spec.md §4.8's
// pluggable worker-pool policy.
type strategyKind int

const (
	strategyWorkStealing strategyKind = iota
	strategyWorkSharing
)

const (
	defaultWorkers         = 4
	defaultSessionCapacity = 64
	defaultSharingCapacity = 256
	defaultAdmitBatch      = 16
	defaultDispatchBatch   = 16
	defaultTaskResultCap   = 64
)

type config struct {
	strategy        strategyKind
	customStrategy  worker.Strategy
	workers         int
	sessionCapacity int
	sharingCapacity int
	admitBatch      int
	dispatchBatch   int
	actionBatch     int
	emitter         observe.Emitter
	metrics         *observe.PrometheusMetrics
}

func defaultConfig() *config {
	return &config{
		strategy:        strategyWorkStealing,
		workers:         defaultWorkers,
		sessionCapacity: defaultSessionCapacity,
		sharingCapacity: defaultSharingCapacity,
		admitBatch:      defaultAdmitBatch,
		dispatchBatch:   defaultDispatchBatch,
		emitter:         observe.NewNullEmitter(),
	}
}

func (c *config) buildPool() worker.Strategy {
	if c.customStrategy != nil {
		return c.customStrategy
	}
	switch c.strategy {
	case strategyWorkSharing:
		return worker.NewWorkSharing(c.workers, c.sharingCapacity)
	default:
		return worker.NewWorkStealing(c.workers)
	}
}

// Option configures a Scheduler at construction. The zero-value config
// (no options passed) yields a work-stealing pool of four workers, a
// 64-deep session connector, and a null Emitter.
type Option func(*config)

// WithWorkers sets the number of pool worker goroutines.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithWorkSharing selects the bounded-channel work-sharing strategy over
// the default work-stealing one, with the given channel capacity.
func WithWorkSharing(capacity int) Option {
	return func(c *config) {
		c.strategy = strategyWorkSharing
		c.sharingCapacity = capacity
	}
}

// WithWorkStealing selects the per-worker-deque work-stealing strategy
// (the default).
func WithWorkStealing() Option {
	return func(c *config) { c.strategy = strategyWorkStealing }
}

// WithStrategy installs a caller-built worker.Strategy directly, overriding
// WithWorkSharing/WithWorkStealing/WithWorkers entirely.
func WithStrategy(strat worker.Strategy) Option {
	return func(c *config) { c.customStrategy = strat }
}

// WithSessionCapacity sets the session connector's channel capacity — how
// many in-flight Session.Send calls can be outstanding before callers
// block.
func WithSessionCapacity(n int) Option {
	return func(c *config) { c.sessionCapacity = n }
}

// WithAdmitBatch sets how many connector messages a single tick admits
// into the executor before moving on to dispatch.
func WithAdmitBatch(n int) Option {
	return func(c *config) { c.admitBatch = n }
}

// WithDispatchBatch sets how many Dispatch/Update round trips a single
// tick performs in its running phase.
func WithDispatchBatch(n int) Option {
	return func(c *config) { c.dispatchBatch = n }
}

// WithActionBatch overrides the executor's per-action dequeue size (see
// executor.Executor.ActionBatch). Zero leaves the executor's own default.
func WithActionBatch(n int) Option {
	return func(c *config) { c.actionBatch = n }
}

// WithEmitter installs an observe.Emitter the tick loop reports phase
// events to. The default is a NullEmitter.
func WithEmitter(e observe.Emitter) Option {
	return func(c *config) {
		if e != nil {
			c.emitter = e
		}
	}
}

// WithMetrics installs a PrometheusMetrics instance the tick loop records
// frontier count, worker counts, tick duration, and action errors to.
func WithMetrics(m *observe.PrometheusMetrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithTracer installs an OTelEmitter built over tracer, overriding any
// Emitter set by WithEmitter. Equivalent to
// WithEmitter(observe.NewOTelEmitter(tracer)).
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		if tracer != nil {
			c.emitter = observe.NewOTelEmitter(tracer)
		}
	}
}
