package scheduler

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/flowsched/flowsched/topology"
	"github.com/flowsched/flowsched/value"
)

// Session is a typed sender bound to every source node the graph registered
// for T. Sessions are intended for use from goroutines other than the
// scheduler's own tick goroutine; Send may block under backpressure (spec.md
// §4.7, §5).
//
// Go has no destructor to hook the spec's "Session on drop sends
// Message::Drop"; Session adopts the idiomatic substitute, io.Closer-style
// explicit Close, which a caller invokes (typically via defer) instead of
// relying on finalization.
type Session[T any, I comparable] struct {
	sched     *Scheduler[I]
	sources   []topology.NodeIndex
	sessionID uint64
	closeOnce sync.Once
}

// NewSession creates a Session bound to sched's source nodes for T. It fails
// if the graph registered no such source.
func NewSession[T any, I comparable](sched *Scheduler[I]) (*Session[T, I], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	srcs := sched.graph.sourcesFor(t)
	if len(srcs) == 0 {
		return nil, fmt.Errorf("%w %s", ErrNoSource, t)
	}
	sources := make([]topology.NodeIndex, len(srcs))
	copy(sources, srcs)
	return &Session[T, I]{
		sched:     sched,
		sources:   sources,
		sessionID: sched.nextSessionID(),
	}, nil
}

// Send enqueues (id, v) for delivery to every source node this Session is
// bound to. It blocks if the scheduler's connector is at capacity, until
// either the send succeeds or ctx is done.
func (s *Session[T, I]) Send(ctx context.Context, id I, v value.Option[T]) error {
	var val value.Option[value.Value]
	if x, ok := v.Get(); ok {
		val = value.Some(value.Of(x))
	} else {
		val = value.None[value.Value]()
	}
	return s.sched.conn.send(ctx, message[I]{
		kind:    messageItem,
		id:      id,
		val:     val,
		sources: s.sources,
	})
}

// Close sends a Message::Drop for this Session, the Go-idiomatic substitute
// for the source's on-drop notification. Close is safe to call more than
// once and safe to omit on the zero Session.
func (s *Session[T, I]) Close() {
	s.closeOnce.Do(func() {
		_ = s.sched.conn.send(context.Background(), message[I]{kind: messageDrop, sessionID: s.sessionID})
	})
}
