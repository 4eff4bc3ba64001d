package observe

import "context"

// Emitter receives observability events from the tick loop. Implementations
// must not block tick progress for long and must not panic: a misbehaving
// emitter must never be the reason a workflow fails.
type Emitter interface {
	// Emit records a single event. Implementations that buffer should do so
	// here and flush lazily or on Flush.
	Emit(Event)

	// Flush blocks until every buffered event has been delivered, or ctx is
	// done. Called by the scheduler on graceful shutdown.
	Flush(ctx context.Context) error
}
