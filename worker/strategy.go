// Package worker implements the scheduler's two executor-pool strategies:
// work-sharing (bounded channel, inline depth-first subtask execution) and
// work-stealing (per-worker deque, cross-worker stealing, unbounded
// injector). Both isolate user-task panics at the worker boundary and expose
// atomic running/pending counters for observability.
package worker

// Task is a unit of work submitted to a Strategy. spawn lets the task push
// subtasks back into the same strategy; how those subtasks are scheduled
// (inline vs. stealable) is the one behavioral difference between the two
// strategies.
type Task func(spawn func(Task))

// Strategy is the worker pool contract the task queue submits onto.
type Strategy interface {
	// Submit enqueues t. It reports false if the pool is at capacity and t
	// was not accepted (only possible for WorkSharing; WorkStealing's
	// injector is unbounded and always accepts).
	Submit(t Task) bool

	// NumRunning reports tasks currently executing.
	NumRunning() int64
	// NumPending reports tasks queued but not yet started.
	NumPending() int64

	// Shutdown lets in-flight tasks finish and joins every worker goroutine.
	// Tasks still queued when it is called are run by the workers before
	// they exit; they are not discarded. Submit is not guarded against calls
	// after Shutdown.
	Shutdown()
}

func runProtected(t Task, spawn func(Task)) {
	defer func() {
		_ = recover()
	}()
	t(spawn)
}
