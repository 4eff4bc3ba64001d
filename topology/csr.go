package topology

// NodeIndex identifies a node within a built Topology. Indices are dense and
// zero-based in builder insertion order.
type NodeIndex int32

// Unreachable is the sentinel distance-matrix entry meaning "no path".
const Unreachable uint8 = 255

// maxDegree is the largest in/out-degree a node may have; degree counters
// are stored as uint8 and 255 is reserved, so 254 is the practical cap.
const maxDegree = 254

type edge struct {
	from, to NodeIndex
}

// csr is a compressed-sparse-row adjacency list: row i's neighbors are
// cols[rowStart[i]:rowStart[i+1]].
type csr struct {
	rowStart []int32
	cols     []NodeIndex
}

func (c *csr) neighbors(n NodeIndex) []NodeIndex {
	return c.cols[c.rowStart[n]:c.rowStart[n+1]]
}

// insertionSort sorts edges in place by the given key, ascending. Insertion
// sort is the right choice here, not a premature one: edge lists handed to
// the builder are near-sorted in practice (callers add edges in roughly
// source order), so this runs close to O(n) with the occasional inversion,
// beating an O(n log n) general sort's constant factor.
func insertionSort(edges []edge, key func(edge) NodeIndex) {
	for i := 1; i < len(edges); i++ {
		e := edges[i]
		k := key(e)
		j := i - 1
		for j >= 0 && key(edges[j]) > k {
			edges[j+1] = edges[j]
			j--
		}
		edges[j+1] = e
	}
}

// buildCSR sorts a copy of edges by key and derives row pointers with one
// linear sweep, plus a uint8 degree per row (failing if any row exceeds
// maxDegree).
func buildCSR(n int, edges []edge, key func(edge) NodeIndex, other func(edge) NodeIndex) (csr, []uint8, error) {
	sorted := make([]edge, len(edges))
	copy(sorted, edges)
	insertionSort(sorted, key)

	degree := make([]uint8, n)
	for _, e := range sorted {
		k := key(e)
		if degree[k] == maxDegree {
			return csr{}, nil, ErrDegreeOverflow
		}
		degree[k]++
	}

	// Prefix-sum the per-row counts into row-start offsets in one sweep.
	rowStart := make([]int32, n+1)
	for r := 0; r < n; r++ {
		rowStart[r+1] = rowStart[r] + int32(degree[r])
	}

	// sorted is grouped by key already, so cols falls out directly.
	cols := make([]NodeIndex, len(sorted))
	for i, e := range sorted {
		cols[i] = other(e)
	}

	return csr{rowStart: rowStart, cols: cols}, degree, nil
}
