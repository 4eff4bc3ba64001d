package executor

import (
	"github.com/flowsched/flowsched/action"
	"github.com/flowsched/flowsched/frontier"
	"github.com/flowsched/flowsched/topology"
	"github.com/flowsched/flowsched/value"
)

// Submit delivers val to id at the given source nodes (normally exactly one;
// a type may register several source nodes, all fed by the same call). The
// first Submit to see an id starts a Frontier seeded at every source node in
// the graph, so a node with in-edges from more than one source (a join)
// correctly waits for each of them regardless of the order their data
// arrives in. Later Submit calls for an id already in flight complete the
// given source nodes within that same Frontier instead of starting a second,
// independent one. It then pushes whatever becomes visitable onto the
// per-action queues and fires the Submit interest for every action that
// declared it.
func (e *Executor[I]) Submit(id I, val value.Option[value.Value], sources []topology.NodeIndex) {
	handle, ok := e.byID[id]
	if !ok {
		f := frontier.NewJoined(e.graph.Topology, e.allSources)
		handle = e.newHandle()
		e.slab[handle] = &entry[I]{id: id, frontier: f}
		e.byID[id] = handle
	}

	for _, src := range sources {
		e.doComplete(Token{Frontier: handle, Node: src}, val)
	}

	for _, node := range e.interests[action.InterestSubmit] {
		act := e.graph.Nodes[node]
		_, _ = act.Execute(action.SignalInput[I](id, action.InterestSubmit))
	}
}

// doTake drains every node the handle's frontier currently has visitable
// into its per-action queue, bumping the entry's outstanding ref count for
// each push.
func (e *Executor[I]) doTake(handle FrontierHandle) {
	ent, ok := e.slab[handle]
	if !ok || ent.frontier == nil {
		return
	}
	for {
		n, ok := ent.frontier.Take()
		if !ok {
			break
		}
		e.queues[n] = append(e.queues[n], handle)
		ent.refs++
	}
	e.prune(handle)
}
