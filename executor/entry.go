package executor

import "github.com/flowsched/flowsched/frontier"

// entry is one frontier-slab element: an in-flight item id and its
// traversal state. frontier is nil once the entry has been flushed, per the
// Flush action property.
type entry[I comparable] struct {
	id       I
	frontier *frontier.Frontier
	// refs counts queue pushes of this handle not yet matched by a
	// completion, plus RetainToken calls not yet matched by ReleaseToken
	// (pending tasks and timers). It lets the executor prune slab entries opportunistically
	// without a generational index: a handle is safe to forget once its
	// frontier can produce no more visitable nodes and nothing referencing
	// it is still queued or running.
	refs int
}

func (e *entry[I]) prunable() bool {
	if e.refs != 0 {
		return false
	}
	return e.frontier == nil || e.frontier.Done()
}
