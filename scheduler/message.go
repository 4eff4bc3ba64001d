package scheduler

import (
	"context"
	"sync/atomic"

	"github.com/flowsched/flowsched/topology"
	"github.com/flowsched/flowsched/value"
)

type messageKind int

const (
	messageItem messageKind = iota
	messageDrop
)

// message is what crosses the session connector: either an item destined
// for one or more source nodes, or a session-drop notification.
type message[I comparable] struct {
	kind    messageKind
	id      I
	val     value.Option[value.Value]
	sources []topology.NodeIndex

	sessionID uint64
}

// connector is the bounded MPSC channel described in spec.md §4.7: any
// number of Session producers send on it; the scheduler's tick loop is its
// sole receiver. Sending on a full connector blocks the sender, which is
// the connector's only backpressure mechanism.
type connector[I comparable] struct {
	ch      chan message[I]
	pending atomic.Int64
}

func newConnector[I comparable](capacity int) *connector[I] {
	return &connector[I]{ch: make(chan message[I], capacity)}
}

// send enqueues msg, blocking if the channel is full until either it is
// accepted or ctx is done.
func (c *connector[I]) send(ctx context.Context, msg message[I]) error {
	select {
	case c.ch <- msg:
		c.pending.Add(1)
		return nil
	default:
	}
	select {
	case c.ch <- msg:
		c.pending.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tryRecv non-blocking-polls one message.
func (c *connector[I]) tryRecv() (message[I], bool) {
	select {
	case m := <-c.ch:
		return m, true
	default:
		return message[I]{}, false
	}
}

// recvChan exposes the channel for the tick loop's waiting-phase select.
func (c *connector[I]) recvChan() <-chan message[I] { return c.ch }

// done marks one message as having been handled by the tick loop, whichever
// path (tryRecv or the waiting-phase select) received it.
func (c *connector[I]) done() { c.pending.Add(-1) }

// hasPending reports whether any sent message is still unhandled. IsEmpty
// uses it; the tick loop itself branches only on the executor's
// CanMakeProgress, and picks up new messages either in the waiting phase's
// select or through admit during the running phase.
func (c *connector[I]) hasPending() bool { return c.pending.Load() > 0 }
