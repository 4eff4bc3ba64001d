package scheduler

import (
	"github.com/flowsched/flowsched/action"
	"github.com/flowsched/flowsched/executor"
	"github.com/flowsched/flowsched/worker"
)

// taskResult is one Task output's eventual outcome, tagged with the Token
// that routes it back to the right frontier and node.
type taskResult[I comparable] struct {
	tok     executor.Token
	outputs action.Outputs[I]
	err     error
}

// pendingTask is a Task output the worker pool rejected (at capacity) and
// taskQueue is holding locally until Update can retry it.
type pendingTask[I comparable] struct {
	tok executor.Token
	fn  func() (action.Outputs[I], error)
}

// taskQueue bridges the executor's Task outputs to the worker pool
// (spec.md §4.3): submissions that the pool rejects for being at capacity
// are buffered locally — an unbounded deque, bounded in practice by session
// backpressure on the connector — and retried on every Update call.
type taskQueue[I comparable] struct {
	pool     worker.Strategy
	results  chan taskResult[I]
	overflow []pendingTask[I]
}

func newTaskQueue[I comparable](pool worker.Strategy, capacity int) *taskQueue[I] {
	return &taskQueue[I]{pool: pool, results: make(chan taskResult[I], capacity)}
}

// Submit wraps fn so its eventual result lands on the results channel under
// tok, matching the executor.TaskSink signature so it can be passed
// directly to executor.New.
func (q *taskQueue[I]) Submit(tok executor.Token, fn func() (action.Outputs[I], error)) {
	if !q.trySubmit(tok, fn) {
		q.overflow = append(q.overflow, pendingTask[I]{tok: tok, fn: fn})
	}
}

func (q *taskQueue[I]) trySubmit(tok executor.Token, fn func() (action.Outputs[I], error)) bool {
	return q.pool.Submit(func(spawn func(worker.Task)) {
		outputs, err := fn()
		q.results <- taskResult[I]{tok: tok, outputs: outputs, err: err}
	})
}

// Update retries draining the local overflow queue into the pool, in FIFO
// order, stopping at the first submission the pool still rejects.
func (q *taskQueue[I]) Update() {
	for len(q.overflow) > 0 {
		p := q.overflow[0]
		if !q.trySubmit(p.tok, p.fn) {
			return
		}
		q.overflow = q.overflow[1:]
	}
}

// Take non-blocking-polls one completed task result.
func (q *taskQueue[I]) Take() (taskResult[I], bool) {
	select {
	case r := <-q.results:
		return r, true
	default:
		return taskResult[I]{}, false
	}
}

// resultChan exposes the completion channel for the tick loop's waiting
// phase select.
func (q *taskQueue[I]) resultChan() <-chan taskResult[I] { return q.results }
