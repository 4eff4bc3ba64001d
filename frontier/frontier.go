// Package frontier implements the per-item topological traversal ("Frontier"
// in the scheduler's data model) over an immutable topology.Topology.
package frontier

import (
	"errors"

	"github.com/flowsched/flowsched/topology"
	"github.com/flowsched/flowsched/value"
)

// completed is the dependency-counter sentinel marking a node visited.
// Nodes have at most 254 in-edges (topology.maxDegree), so a uint8 counter
// and a reserved 255 sentinel are sufficient.
const completed uint8 = 255

// ErrAlreadyCompleted is returned by Complete when the node was already
// marked complete in this Frontier. Callers that want fan-out semantics
// treat this as an instruction to start a fresh Frontier at the same node,
// not as an invariant violation.
var ErrAlreadyCompleted = errors.New("frontier: node already completed")

type argKey struct {
	node topology.NodeIndex
	arg  int
}

// Frontier is a dependency-counted topological walk seeded at a caller-chosen
// set of initial nodes, scoped to the subgraph reachable from those seeds.
// Dependencies whose source lies outside that reachable subgraph are not
// required to fire a node — this is what makes a Frontier seeded at an
// interior node usable on its own, independent of the rest of the graph.
type Frontier struct {
	topo      *topology.Topology
	deps      []uint8
	visitable []topology.NodeIndex
	values    map[argKey]value.Option[value.Value]

	// universe is the number of nodes reachable from the Frontier's scope —
	// the only nodes that can ever be completed. completedCount is how many
	// of those have been. Done reports universe == completedCount, which is
	// the only reliable "nothing more will ever happen here" signal: the
	// visitable deque going empty just means nothing is ready *right now*
	// (see IsExhausted), which for a join scoped at multiple not-yet-fed
	// source nodes is true long before the traversal is actually finished.
	universe       int
	completedCount int
}

// New builds a Frontier over top seeded at seeds. Every seed whose adjusted
// dependency count is already zero is immediately visitable. Use this for an
// interior-start traversal (a fan-out fork): the seed node itself is ready
// the instant the Frontier exists.
func New(top *topology.Topology, seeds []topology.NodeIndex) *Frontier {
	f := newScoped(top, seeds)
	for _, s := range seeds {
		if f.deps[s] == 0 {
			f.visitable = append(f.visitable, s)
		}
	}
	return f
}

// NewJoined builds a Frontier scoped to the subgraph reachable from scope
// (typically every source node in the graph) but with nothing yet marked
// visitable: callers drive the traversal forward by calling Complete
// directly on whichever scope node actually received a value. This is what
// lets a join wait correctly across two independent external submissions
// that arrive at different times — a scope node that hasn't been completed
// yet never becomes a dangling dispatch, because it was never auto-queued.
func NewJoined(top *topology.Topology, scope []topology.NodeIndex) *Frontier {
	return newScoped(top, scope)
}

func newScoped(top *topology.Topology, scope []topology.NodeIndex) *Frontier {
	deps := make([]uint8, top.N())
	for n := 0; n < top.N(); n++ {
		deps[n] = top.InDegree(topology.NodeIndex(n))
	}

	for n := 0; n < top.N(); n++ {
		node := topology.NodeIndex(n)
		for _, pred := range top.InEdges(node) {
			if !reachableFromAny(top, scope, pred) {
				deps[n]--
			}
		}
	}

	universe := 0
	for n := 0; n < top.N(); n++ {
		if reachableFromAny(top, scope, topology.NodeIndex(n)) {
			universe++
		}
	}

	return &Frontier{
		topo:     top,
		deps:     deps,
		values:   make(map[argKey]value.Option[value.Value]),
		universe: universe,
	}
}

func reachableFromAny(top *topology.Topology, seeds []topology.NodeIndex, target topology.NodeIndex) bool {
	for _, s := range seeds {
		if top.IsAncestor(s, target) {
			return true
		}
	}
	return false
}

// Take pops the next visitable node in FIFO order. A false result does not
// necessarily mean the traversal is finished — more nodes may become
// visitable once in-flight nodes are Complete-d.
func (f *Frontier) Take() (topology.NodeIndex, bool) {
	if len(f.visitable) == 0 {
		return 0, false
	}
	n := f.visitable[0]
	f.visitable = f.visitable[1:]
	return n, true
}

// Complete marks n done, carrying val downstream as the argument value on
// every out-edge of n, and advances any successor whose dependency count
// reaches zero into the visitable deque. Calling Complete twice on the same
// node returns ErrAlreadyCompleted.
func (f *Frontier) Complete(n topology.NodeIndex, val value.Option[value.Value]) error {
	if f.deps[n] == completed {
		return ErrAlreadyCompleted
	}
	f.deps[n] = completed
	f.completedCount++

	for _, succ := range f.topo.OutEdges(n) {
		f.values[argKey{node: succ, arg: argIndex(f.topo.InEdges(succ), n)}] = val
		if f.deps[succ] == completed {
			continue
		}
		f.deps[succ]--
		if f.deps[succ] == 0 {
			f.visitable = append(f.visitable, succ)
		}
	}
	return nil
}

func argIndex(inEdges []topology.NodeIndex, pred topology.NodeIndex) int {
	for i, p := range inEdges {
		if p == pred {
			return i
		}
	}
	return -1
}

// Args returns n's in-edge argument values in in-edge order, as delivered by
// predecessor completions so far. Positions whose predecessor has not yet
// completed are the zero Option (absent).
func (f *Frontier) Args(n topology.NodeIndex) []value.Option[value.Value] {
	ins := f.topo.InEdges(n)
	args := make([]value.Option[value.Value], len(ins))
	for i := range ins {
		args[i] = f.values[argKey{node: n, arg: i}]
	}
	return args
}

// IsExhausted reports whether the visitable deque is currently empty. This
// does not by itself mean the traversal is complete; see Done.
func (f *Frontier) IsExhausted() bool { return len(f.visitable) == 0 }

// Done reports whether every node reachable from the Frontier's scope has
// been completed — the only condition under which this Frontier will never
// produce another visitable node.
func (f *Frontier) Done() bool { return f.completedCount == f.universe }
