// Package scheduler wires the topology/frontier/executor/worker/value
// primitives into the public, end-user-facing system: graph construction,
// typed sessions, and the tick loop described in spec.md §4.7–§4.8.
package scheduler

import (
	"reflect"

	"github.com/flowsched/flowsched/action"
	"github.com/flowsched/flowsched/topology"
)

// Graph is the built, immutable action DAG plus the source map the Session
// API needs to find which node(s) accept a given payload type. It
// corresponds to spec.md §3's `(actions: Graph<Action>, sources:
// Map<Descriptor, Vec<NodeIndex>>)`, keyed here by reflect.Type rather than
// by a full Descriptor since Go's type system already gives us a stable,
// comparable type identity.
type Graph[I comparable] struct {
	topo    *topology.Graph[action.Action[I]]
	sources map[reflect.Type][]topology.NodeIndex
}

// sourceAction is the placeholder Action every source node carries. It is
// never Executed: the executor completes source nodes directly with the
// submitted value (see Executor.Submit), so this only needs to exist to
// satisfy the Action[I] element type of the topology builder.
type sourceAction[I comparable] struct{}

func (sourceAction[I]) Descriptor() action.Descriptor { return action.Descriptor{} }

func (sourceAction[I]) Execute(action.Input[I]) (action.Outputs[I], error) {
	return nil, nil
}

// GraphBuilder accumulates source and action nodes before Build. It is not
// safe for concurrent use, matching topology.Builder.
type GraphBuilder[I comparable] struct {
	tb      *topology.Builder[action.Action[I]]
	sources map[reflect.Type][]topology.NodeIndex
}

// NewGraphBuilder returns an empty GraphBuilder.
func NewGraphBuilder[I comparable]() *GraphBuilder[I] {
	return &GraphBuilder[I]{
		tb:      topology.NewBuilder[action.Action[I]](),
		sources: make(map[reflect.Type][]topology.NodeIndex),
	}
}

// AddSource registers a new source node accepting values of type T and
// returns its index. A Session[T, I] created later over the built Graph
// finds this node by T's reflect.Type.
func AddSource[T any, I comparable](b *GraphBuilder[I]) topology.NodeIndex {
	idx := b.tb.AddNode(sourceAction[I]{})
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.sources[t] = append(b.sources[t], idx)
	return idx
}

// AddAction registers act as a node fed by sources, in the given order (the
// spec's in-edge order defines action argument order), and returns its
// index.
func AddAction[I comparable](b *GraphBuilder[I], sources []topology.NodeIndex, act action.Action[I]) (topology.NodeIndex, error) {
	idx := b.tb.AddNode(act)
	for _, s := range sources {
		if err := b.tb.AddEdge(s, idx); err != nil {
			return 0, err
		}
	}
	return idx, nil
}

// Build finalizes the builder into a Graph. The only failure mode is a node
// exceeding 254 edges in one direction (topology.ErrDegreeOverflow).
func (b *GraphBuilder[I]) Build() (*Graph[I], error) {
	g, err := b.tb.Build()
	if err != nil {
		return nil, err
	}
	sources := make(map[reflect.Type][]topology.NodeIndex, len(b.sources))
	for t, idxs := range b.sources {
		cp := make([]topology.NodeIndex, len(idxs))
		copy(cp, idxs)
		sources[t] = cp
	}
	return &Graph[I]{topo: g, sources: sources}, nil
}

func (g *Graph[I]) sourcesFor(t reflect.Type) []topology.NodeIndex {
	return g.sources[t]
}
