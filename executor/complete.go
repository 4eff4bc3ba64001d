package executor

import (
	"github.com/flowsched/flowsched/action"
	"github.com/flowsched/flowsched/frontier"
	"github.com/flowsched/flowsched/topology"
	"github.com/flowsched/flowsched/value"
)

// RetainToken marks tok's frontier entry as having one more pending
// asynchronous completion outstanding (a submitted task or a pending
// timer), preventing the entry from being pruned until a matching
// ReleaseToken call. processOutputs calls this for every Task output it
// hands to the task sink, and TaskComplete releases it; the scheduler calls
// it when its timer queue arms a new entry and releases it when that timer
// fires or is cleared.
func (e *Executor[I]) RetainToken(tok Token) {
	if ent, ok := e.slab[tok.Frontier]; ok {
		ent.refs++
	}
}

// ReleaseToken undoes one RetainToken, pruning the entry if it has become
// exhausted with no outstanding work.
func (e *Executor[I]) ReleaseToken(tok Token) {
	ent, ok := e.slab[tok.Frontier]
	if !ok {
		return
	}
	ent.refs--
	e.prune(tok.Frontier)
}

// Update routes a Dispatch result back in: it decrements the node's running
// counter (Dispatch incremented it) and the entry's dequeue ref (held since
// Dispatch took this handle off the node's queue), then processes the
// outputs or, for a non-Presence error, logs it and completes the node with
// an absent value.
func (e *Executor[I]) Update(tok Token, outputs action.Outputs[I], err error) {
	e.running[tok.Node]--
	if ent, ok := e.slab[tok.Frontier]; ok {
		ent.refs--
	}
	if err != nil {
		if e.onActionError != nil {
			e.onActionError(tok.Node, err)
		}
		e.doComplete(tok, value.None[value.Value]())
		return
	}
	e.processOutputs(tok, outputs)
}

// TaskComplete routes a deferred task's eventual result back in under the
// same token its originating dispatch used. Unlike Update, it never touches
// the running counter: a task's concurrency is bounded by the worker pool,
// not by the action's own concurrency cap.
func (e *Executor[I]) TaskComplete(tok Token, outputs action.Outputs[I], err error) {
	defer e.ReleaseToken(tok)
	if err != nil {
		if e.onActionError != nil {
			e.onActionError(tok.Node, err)
		}
		e.doComplete(tok, value.None[value.Value]())
		return
	}
	e.processOutputs(tok, outputs)
}

// CompleteTimer routes a timer firing back in as if the node had emitted a
// single Item output carrying data under the frontier's current id.
func (e *Executor[I]) CompleteTimer(tok Token, data value.Option[value.Value]) {
	ent, ok := e.slab[tok.Frontier]
	if !ok {
		return
	}
	e.processOutputs(tok, action.Outputs[I]{action.Item(ent.id, data)})
}

// processOutputs partitions outputs into items/tasks/timers, submits
// tasks/timers under tok, fans items out to their matching or forked
// frontier, completes the node with an absent value when no items were
// produced, and finally drops the frontier if the node's descriptor is
// Flush.
func (e *Executor[I]) processOutputs(tok Token, outputs action.Outputs[I]) {
	ent, ok := e.slab[tok.Frontier]
	if !ok {
		return
	}
	node := tok.Node
	owner := ent.id

	var items []action.Output[I]
	for _, o := range outputs {
		switch o.Kind {
		case action.OutputKindItem:
			items = append(items, o)
		case action.OutputKindTask:
			if e.submitTask != nil {
				e.RetainToken(tok)
				e.submitTask(tok, o.Task)
			}
		case action.OutputKindTimer:
			if e.submitTimer != nil {
				// Timers are keyed per (id, node): a later item under the
				// same id runs on a forked frontier, but its timer output
				// targets the pending timer of the id's top-level frontier.
				ttok := tok
				if h, ok := e.byID[owner]; ok {
					ttok.Frontier = h
				}
				e.submitTimer(ttok, o.Timer)
			}
		}
	}

	if len(items) == 0 {
		e.doComplete(tok, value.None[value.Value]())
	} else {
		for _, it := range items {
			if it.ItemID == owner {
				e.doComplete(tok, it.ItemValue)
			} else {
				e.fork(it.ItemID, node, it.ItemValue)
			}
		}
	}

	if e.graph.Nodes[node].Descriptor().Flush {
		if ent2, ok := e.slab[tok.Frontier]; ok {
			ent2.frontier = nil
			e.prune(tok.Frontier)
		}
	}
}

// doComplete completes node within the frontier owning handle. An
// AlreadyCompleted result is a legal fan-out branch, not an error: it starts
// a fresh frontier at the same node carrying the new value.
func (e *Executor[I]) doComplete(tok Token, val value.Option[value.Value]) {
	ent, ok := e.slab[tok.Frontier]
	if !ok || ent.frontier == nil {
		return
	}
	id := ent.id
	err := ent.frontier.Complete(tok.Node, val)
	if err == frontier.ErrAlreadyCompleted {
		e.fork(id, tok.Node, val)
		return
	}
	e.doTake(tok.Frontier)
}

// fork starts a brand new frontier seeded at node alone, under id, carrying
// val as node's own completion value. This is how one action invocation's
// output under a different id — or a second completion of an
// already-completed node — becomes its own independent traversal. The
// source never merges a forked frontier into an existing one under the same
// id; each fan-out emission starts fresh.
func (e *Executor[I]) fork(id I, node topology.NodeIndex, val value.Option[value.Value]) {
	f := frontier.New(e.graph.Topology, []topology.NodeIndex{node})
	handle := e.newHandle()
	e.slab[handle] = &entry[I]{id: id, frontier: f}
	// Take the seed off the visitable deque before completing it, so only
	// its successors are queued, not node itself.
	_, _ = f.Take()
	_ = f.Complete(node, val)
	e.doTake(handle)
}
