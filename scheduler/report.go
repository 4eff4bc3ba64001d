package scheduler

// Report summarizes one Tick/TickDeadline/TickTimeout call's work. It is the
// scheduler's half of spec.md §6's opaque `Report`: the diagnostic
// collection format itself (what an action chooses to put in it) is an
// external collaborator out of the core's scope, so Report here only
// accounts for scheduler-level activity, not action-produced diagnostics.
type Report struct {
	// Submitted counts connector messages admitted into the executor.
	Submitted int
	// Dispatched counts action invocations whose result was routed through
	// Executor.Update this call.
	Dispatched int
	// TasksCompleted counts deferred Task outputs whose result was routed
	// through Executor.TaskComplete this call.
	TasksCompleted int
	// TimersFired counts timer queue entries that fired this call.
	TimersFired int
	// Errors collects every non-presence action error encountered, most
	// recent last.
	Errors []error
}

// IsZero reports whether no scheduler-level work happened during the call
// that produced r.
func (r Report) IsZero() bool {
	return r.Submitted == 0 && r.Dispatched == 0 && r.TasksCompleted == 0 && r.TimersFired == 0 && len(r.Errors) == 0
}
