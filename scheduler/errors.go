package scheduler

import (
	"errors"
	"fmt"

	"github.com/flowsched/flowsched/topology"
)

// ErrNoSource is returned by NewSession when the graph registers no source
// node for the requested payload type.
var ErrNoSource = errors.New("scheduler: no source registered for type")

// ErrChannelDisconnected marks an invariant violation: the scheduler owns
// both ends of its internal channels, so a send on a closed channel should
// never be observable from outside a shutdown path.
var ErrChannelDisconnected = errors.New("scheduler: channel disconnected")

// ActionError wraps an error returned by an action's Execute with the node
// that produced it, so the tick loop's cause-chain print (spec.md §7) can
// name the offending action.
type ActionError struct {
	Node  topology.NodeIndex
	Cause error
}

// Error implements error.
func (e *ActionError) Error() string {
	return fmt.Sprintf("action at node %d: %v", e.Node, e.Cause)
}

// Unwrap exposes Cause for errors.Is/errors.As and for walking a full cause
// chain when printing to stderr.
func (e *ActionError) Unwrap() error { return e.Cause }
