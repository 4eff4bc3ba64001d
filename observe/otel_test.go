package observe

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestOTelEmitterCreatesSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	emitter := NewOTelEmitter(tp.Tracer("flowsched-test"))
	emitter.Emit(Event{
		Tick:   4,
		Phase:  "running",
		Action: "square",
		Msg:    "dispatch",
		Meta:   map[string]any{"node": "3"},
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "dispatch" {
		t.Fatalf("span name = %q, want %q", spans[0].Name, "dispatch")
	}
}

func TestOTelEmitterMarksErrors(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	emitter := NewOTelEmitter(tp.Tracer("flowsched-test"))
	emitter.Emit(Event{Msg: "action_error", Meta: map[string]any{"error": "boom"}})

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Status.Code.String() != "Error" {
		t.Fatalf("expected one errored span, got %+v", spans)
	}
}
