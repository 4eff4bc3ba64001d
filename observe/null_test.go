package observe

import (
	"context"
	"testing"
)

func TestNullEmitterDiscards(t *testing.T) {
	e := NewNullEmitter()
	e.Emit(Event{Msg: "anything"})
	if err := e.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}
