package observe

import "context"

// NullEmitter discards every event. It is the scheduler's default emitter
// so that observability is strictly opt-in.
type NullEmitter struct{}

// NewNullEmitter returns an Emitter that discards everything it's given.
func NewNullEmitter() *NullEmitter { return &NullEmitter{} }

// Emit implements Emitter.
func (*NullEmitter) Emit(Event) {}

// Flush implements Emitter.
func (*NullEmitter) Flush(context.Context) error { return nil }
