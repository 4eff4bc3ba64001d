package observe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter turns each tick-phase and action-dispatch Event into an
// OpenTelemetry span: the event's Msg is the span name, Tick/Phase/Action
// and every Meta entry become attributes, and a Meta["error"] entry marks
// the span as errored.
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter builds an OTelEmitter over tracer (e.g.
// otel.Tracer("flowsched")).
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit implements Emitter by starting and immediately ending a span
// representing e. Tick-loop events are instantaneous from the scheduler's
// point of view (the work they describe already happened by the time
// Emit is called), so there is no separate "start" call to pair it with.
func (o *OTelEmitter) Emit(e Event) {
	_, span := o.tracer.Start(context.Background(), e.Msg)
	span.SetAttributes(
		attribute.Int("flowsched.tick", e.Tick),
		attribute.String("flowsched.phase", e.Phase),
		attribute.String("flowsched.action", e.Action),
	)
	for k, v := range e.Meta {
		span.SetAttributes(attribute.String(k, toString(v)))
	}
	if errVal, ok := e.Meta["error"]; ok {
		span.SetStatus(codes.Error, toString(errVal))
	}
	span.End()
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}

// Flush is a no-op: spans are ended synchronously in Emit: any buffering
// happens in the underlying SpanExporter, which flowsched does not own.
func (o *OTelEmitter) Flush(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
