package executor

import (
	"errors"

	"github.com/flowsched/flowsched/action"
	"github.com/flowsched/flowsched/topology"
	"github.com/flowsched/flowsched/value"
)

// defaultActionBatch is the per-action dequeue size used while scanning node
// queues in Dispatch, applied when an Executor's ActionBatch is unset. It is
// a throughput/latency tuning knob, not a correctness requirement; the
// scheduler exposes it as configuration through the ActionBatch field
// (scheduler.WithActionBatch).
const defaultActionBatch = 8

// Result is one resolved dispatch: either outputs to process or an error
// that was not a Presence error (those are resolved inline and never
// returned).
type Result[I comparable] struct {
	Token   Token
	Outputs action.Outputs[I]
	Err     error
}

// Dispatch scans per-action queues in node order and, for each action with
// queued work under its concurrency cap, synchronously invokes it for up to
// ActionBatch queued handles before moving to the next action, continuing
// until budget jobs have been dispatched or no more queues have eligible
// work. Presence errors (a required input was absent) are resolved
// in-process and never appear in the returned slice; everything else comes
// back for the caller to route into Update.
func (e *Executor[I]) Dispatch(budget int) []Result[I] {
	actionBatch := e.ActionBatch
	if actionBatch <= 0 {
		actionBatch = defaultActionBatch
	}
	var results []Result[I]
	for n := topology.NodeIndex(0); int(n) < len(e.queues) && budget > 0; n++ {
		cap_ := e.concurrencyCap(n)
		taken := 0
		for len(e.queues[n]) > 0 && e.running[n] < cap_ && taken < actionBatch && budget > 0 {
			handle := e.queues[n][0]
			e.queues[n] = e.queues[n][1:]
			taken++
			budget--

			ent := e.slab[handle]
			tok := Token{Frontier: handle, Node: n}
			args := ent.frontier.Args(n)
			in := action.ItemInput[I](ent.id, args)

			outputs, err := e.graph.Nodes[n].Execute(in)
			if err != nil && errors.Is(err, value.ErrAbsent) {
				// Presence error: skip the action, advance the traversal.
				// This resolves the ref doTake placed on the dequeued
				// handle; nothing else will, since no Update is coming.
				ent.refs--
				e.doComplete(tok, value.None[value.Value]())
				continue
			}

			// The dequeue ref stays held until Update resolves it: the
			// caller still owes us that call, and the entry must not look
			// prunable in the meantime even though the queue slot is gone.
			e.running[n]++
			results = append(results, Result[I]{Token: tok, Outputs: outputs, Err: err})
		}
	}
	return results
}
