// Package observe carries the scheduler's ambient observability stack:
// structured event logging, Prometheus metrics, and OpenTelemetry tracing
// over tick/executor/worker activity. None of it is on the scheduler's
// correctness path — every implementation here is safe to swap for a
// NullEmitter with zero behavioral change.
package observe

// Event is one observability record emitted during a tick. It generalizes
// the teacher's per-node-run event to the scheduler's own lifecycle: a
// phase of the tick loop, the action a dispatch concerns, and a free-form
// message plus structured metadata.
type Event struct {
	// Tick is the scheduler's tick counter at the time of emission.
	Tick int

	// Phase names the tick-loop phase the event occurred in: "process_tasks",
	// "process_timers", "running", or "waiting", or "error" for an action
	// error (the only events the scheduler itself emits).
	Phase string

	// Action identifies the action node the event concerns, empty for
	// phase-level events with no single action.
	Action string

	// Msg is a short, human-readable description, e.g. "dispatch",
	// "action_error", "timer_fire".
	Msg string

	// Meta carries event-specific structured fields, e.g. {"node": 3,
	// "attempt": 2} for a retry, or {"error": err.Error()} for a failure.
	Meta map[string]any
}
