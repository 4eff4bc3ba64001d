// Package executor implements the heart of the scheduler: it matches
// external item submissions and task/timer completions to per-item
// topological traversals (frontier.Frontier), dispatches ready nodes to
// their Action, and handles identifier fan-out when an action emits an
// output under a different id than the one that triggered it.
package executor

import (
	"github.com/flowsched/flowsched/action"
	"github.com/flowsched/flowsched/topology"
)

// TaskSink receives a Task output's closure under tok, for the caller (the
// scheduler's task queue) to hand to the worker pool.
type TaskSink[I comparable] func(tok Token, fn func() (action.Outputs[I], error))

// TimerSink receives a Timer output's spec under tok, for the caller (the
// scheduler's timer queue) to track.
type TimerSink[I comparable] func(tok Token, spec action.TimerSpec)

// Executor is the frontier-slab-owning core described above. It is not safe
// for concurrent use: the scheduler's tick loop is its sole caller, by
// design (see the package's concurrency model in SPEC_FULL.md).
type Executor[I comparable] struct {
	graph *topology.Graph[action.Action[I]]

	queues  [][]FrontierHandle
	running []int

	slab       map[FrontierHandle]*entry[I]
	nextHandle FrontierHandle
	totalSeen  int

	// byID maps an item id to the handle of its top-level Frontier, the one
	// created by the first Submit call to see that id. Later Submit calls for
	// the same id reuse it (so a join across two source nodes observes both
	// completions on one traversal) instead of starting a second, independent
	// one. Forked frontiers (see fork in complete.go) are deliberately never
	// registered here: fan-out never merges.
	byID map[I]FrontierHandle

	allSources []topology.NodeIndex

	interests map[action.Interest][]topology.NodeIndex

	submitTask  TaskSink[I]
	submitTimer TimerSink[I]

	onActionError func(node topology.NodeIndex, err error)

	// ActionBatch overrides the per-action dequeue size Dispatch uses when
	// scanning node queues. Zero (the default) falls back to
	// defaultActionBatch. The scheduler's WithActionBatch option sets this.
	ActionBatch int
}

// New builds an Executor over graph. submitTask/submitTimer are invoked
// synchronously from Update/CompleteTimer whenever an action's outputs
// include Task or Timer entries; onActionError, if non-nil, is called for
// every non-presence action error before the node completes with empty
// outputs (the tick loop wires this to its error-logging policy). Source
// nodes, which Submit completes directly and never executes, may carry a nil
// Action.
func New[I comparable](graph *topology.Graph[action.Action[I]], submitTask TaskSink[I], submitTimer TimerSink[I], onActionError func(topology.NodeIndex, error)) *Executor[I] {
	n := graph.Topology.N()
	e := &Executor[I]{
		graph:         graph,
		queues:        make([][]FrontierHandle, n),
		running:       make([]int, n),
		slab:          make(map[FrontierHandle]*entry[I]),
		byID:          make(map[I]FrontierHandle),
		submitTask:    submitTask,
		submitTimer:   submitTimer,
		onActionError: onActionError,
	}
	for idx := 0; idx < n; idx++ {
		ni := topology.NodeIndex(idx)
		if graph.Topology.IsSource(ni) {
			e.allSources = append(e.allSources, ni)
		}
	}
	e.interests = make(map[action.Interest][]topology.NodeIndex)
	for idx, act := range graph.Nodes {
		if act == nil {
			continue
		}
		d := act.Descriptor()
		for _, interest := range d.Interests {
			e.interests[interest] = append(e.interests[interest], topology.NodeIndex(idx))
		}
	}
	return e
}

func (e *Executor[I]) newHandle() FrontierHandle {
	h := e.nextHandle
	e.nextHandle++
	e.totalSeen++
	return h
}

func (e *Executor[I]) concurrencyCap(n topology.NodeIndex) int {
	act := e.graph.Nodes[n]
	if act == nil {
		return action.DefaultConcurrency
	}
	return act.Descriptor().ConcurrencyLimit()
}

// Len reports the number of frontiers still in flight.
func (e *Executor[I]) Len() int { return len(e.slab) }

// IsEmpty reports whether the executor has no in-flight frontiers and no
// queued dispatch work.
func (e *Executor[I]) IsEmpty() bool {
	if len(e.slab) != 0 {
		return false
	}
	for _, q := range e.queues {
		if len(q) != 0 {
			return false
		}
	}
	return true
}

// Total reports the number of frontiers created over the executor's
// lifetime (including ones already pruned), for introspection.
func (e *Executor[I]) Total() int { return e.totalSeen }

// CanMakeProgress reports whether any action has queued work it's currently
// under its concurrency cap to run.
func (e *Executor[I]) CanMakeProgress() bool {
	for n := topology.NodeIndex(0); int(n) < len(e.queues); n++ {
		if len(e.queues[n]) > 0 && e.running[n] < e.concurrencyCap(n) {
			return true
		}
	}
	return false
}

func (e *Executor[I]) prune(h FrontierHandle) {
	ent, ok := e.slab[h]
	if !ok || !ent.prunable() {
		return
	}
	delete(e.slab, h)
	if cur, ok := e.byID[ent.id]; ok && cur == h {
		delete(e.byID, ent.id)
	}
}
