package topology

// Topology is the immutable, precomputed adjacency and reachability
// structure derived from a builder's (nodes, edges). One Topology is shared
// by every Frontier traversed over it; it is never cloned per-traversal
// because the distance matrix is the largest structure in the system.
type Topology struct {
	n        int
	outgoing csr
	incoming csr
	outDeg   []uint8
	inDeg    []uint8
	distance [][]uint8 // distance[s][t], Unreachable if no path
}

func newTopology(n int, edges []edge) (*Topology, error) {
	outgoing, outDeg, err := buildCSR(n, edges,
		func(e edge) NodeIndex { return e.from },
		func(e edge) NodeIndex { return e.to })
	if err != nil {
		return nil, err
	}

	reversed := make([]edge, len(edges))
	for i, e := range edges {
		reversed[i] = edge{from: e.to, to: e.from}
	}
	incoming, inDeg, err := buildCSR(n, reversed,
		func(e edge) NodeIndex { return e.from },
		func(e edge) NodeIndex { return e.to })
	if err != nil {
		return nil, err
	}

	t := &Topology{n: n, outgoing: outgoing, incoming: incoming, outDeg: outDeg, inDeg: inDeg}
	t.distance = computeDistances(n, &outgoing)
	return t, nil
}

// N returns the number of nodes in the topology.
func (t *Topology) N() int { return t.n }

// OutEdges returns n's outgoing neighbors in builder-insertion order.
func (t *Topology) OutEdges(n NodeIndex) []NodeIndex { return t.outgoing.neighbors(n) }

// InEdges returns n's incoming neighbors in builder-insertion order. Order
// here is significant: it defines action argument order.
func (t *Topology) InEdges(n NodeIndex) []NodeIndex { return t.incoming.neighbors(n) }

// OutDegree returns n's out-degree.
func (t *Topology) OutDegree(n NodeIndex) uint8 { return t.outDeg[n] }

// InDegree returns n's in-degree.
func (t *Topology) InDegree(n NodeIndex) uint8 { return t.inDeg[n] }

// IsSource reports whether n has no in-edges.
func (t *Topology) IsSource(n NodeIndex) bool { return t.inDeg[n] == 0 }

// IsSink reports whether n has no out-edges.
func (t *Topology) IsSink(n NodeIndex) bool { return t.outDeg[n] == 0 }

// Distance returns the shortest path length from s to t, or Unreachable.
func (t *Topology) Distance(s, n NodeIndex) uint8 { return t.distance[s][n] }

// IsAncestor reports whether t_ is reachable from s (s itself counts, at
// distance 0).
func (t *Topology) IsAncestor(s, t_ NodeIndex) bool { return t.distance[s][t_] != Unreachable }
