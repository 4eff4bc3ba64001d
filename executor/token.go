package executor

import "github.com/flowsched/flowsched/topology"

// FrontierHandle is a stable, opaque reference into the executor's frontier
// slab. Handles are created and freed entirely within the scheduler's own
// tick context and are never stored externally, so a generation-free slab
// index is sufficient.
type FrontierHandle uint64

// Token uniquely identifies an in-flight action invocation so its eventual
// result — whether returned directly, or via a task/timer completing later
// — can be routed back to the frontier and node it came from.
type Token struct {
	Frontier FrontierHandle
	Node     topology.NodeIndex
}
