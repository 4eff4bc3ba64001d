package topology

// Builder accumulates nodes and edges for one Topology. It is not safe for
// concurrent use; callers build a graph once, single-threaded, before handing
// it to an executor.
type Builder[T any] struct {
	nodes []T
	edges []edge
}

// NewBuilder returns an empty Builder.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{}
}

// AddNode appends a node carrying v and returns its index.
func (b *Builder[T]) AddNode(v T) NodeIndex {
	b.nodes = append(b.nodes, v)
	return NodeIndex(len(b.nodes) - 1)
}

// AddEdge records a directed edge from -> to. Both endpoints must already
// have been returned by AddNode on this builder; dangling edges are rejected
// here, not deferred to Build.
func (b *Builder[T]) AddEdge(from, to NodeIndex) error {
	if from < 0 || int(from) >= len(b.nodes) || to < 0 || int(to) >= len(b.nodes) {
		return ErrNodeNotFound
	}
	b.edges = append(b.edges, edge{from: from, to: to})
	return nil
}

// Graph is the built, immutable DAG: the node payloads plus the precomputed
// Topology over them.
type Graph[T any] struct {
	Nodes    []T
	Topology *Topology
}

// Build finalizes the builder into a Graph. The only failure mode is a node
// exceeding 254 edges in one direction (ErrDegreeOverflow); acyclicity is
// assumed of the caller (the spec treats the DSL that enforces it as an
// external collaborator) and is not re-verified here.
func (b *Builder[T]) Build() (*Graph[T], error) {
	t, err := newTopology(len(b.nodes), b.edges)
	if err != nil {
		return nil, err
	}
	nodes := make([]T, len(b.nodes))
	copy(nodes, b.nodes)
	return &Graph[T]{Nodes: nodes, Topology: t}, nil
}
