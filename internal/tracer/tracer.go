// Package tracer forwards call records to OpenTelemetry. Records become
// events on the span already active in the traced call's context; this
// package never starts or ends spans itself.
package tracer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/coregx/calltrace/internal/core"
)

// Span is the part of a tracing span that records are written to.
type Span interface {
	// AddEvent adds a named event with attributes to the span
	AddEvent(name string, attrs ...attribute.KeyValue)
	// SetStatus sets the status code and description of the span
	SetStatus(code codes.Code, description string)
}

// NoopSpan is a span that does nothing.
// It stands in when the context carries no recording span.
type NoopSpan struct{}

// AddEvent does nothing.
func (n *NoopSpan) AddEvent(_ string, _ ...attribute.KeyValue) {}

// SetStatus does nothing.
func (n *NoopSpan) SetStatus(_ codes.Code, _ string) {}

// OtelSpan wraps an OpenTelemetry span.
type OtelSpan struct {
	span trace.Span
}

// NewOtelSpan creates a new OpenTelemetry span adapter.
// The provided span must not be nil.
func NewOtelSpan(span trace.Span) *OtelSpan {
	return &OtelSpan{span: span}
}

// AddEvent adds an event to the OpenTelemetry span.
func (s *OtelSpan) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetStatus sets the status of the OpenTelemetry span.
func (s *OtelSpan) SetStatus(code codes.Code, description string) {
	s.span.SetStatus(code, description)
}

// FromContext returns the recording span carried by ctx, or a NoopSpan.
func FromContext(ctx context.Context) Span {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return &NoopSpan{}
	}
	return NewOtelSpan(span)
}

// EventName returns the span event name for a record kind, e.g. "calltrace.entr".
func EventName(kind core.Kind) string {
	return "calltrace." + string(kind)
}

// RecordAttributes returns the span attributes describing rec.
// Function and exception keys follow OpenTelemetry semantic conventions.
// See: https://opentelemetry.io/docs/specs/semconv/exceptions/
func RecordAttributes(rec core.Record) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("code.function", rec.Name),
		attribute.String("calltrace.kind", string(rec.Kind)),
		attribute.String("calltrace.record", rec.String()),
	}

	if rec.Kind.HasArgs() {
		attrs = append(attrs, attribute.String("calltrace.args", rec.Args))
	}

	switch rec.Kind {
	case core.KindExit, core.KindCall:
		attrs = append(attrs, attribute.String("calltrace.result", rec.Result))
	case core.KindException, core.KindCallException:
		attrs = append(attrs,
			attribute.String("exception.type", rec.ErrType),
			attribute.String("exception.message", rec.ErrMsg),
		)
	}

	if rec.Timed && rec.Kind != core.KindEntry {
		attrs = append(attrs, attribute.Int64("calltrace.elapsed_us", rec.Micros()))
	}

	return attrs
}

// AddRecordEvent adds rec as an event on span. When markErrors is set, error
// records also set the span status to Error.
func AddRecordEvent(span Span, rec core.Record, markErrors bool) {
	span.AddEvent(EventName(rec.Kind), RecordAttributes(rec)...)
	if markErrors && rec.Kind.IsError() {
		span.SetStatus(codes.Error, rec.ErrType+": "+rec.ErrMsg)
	}
}

// EventSink is a core.Sink adding every record as an event on the span
// active in the call's context. Calls without a recording span are ignored.
type EventSink struct {
	// MarkErrors sets the span status to Error on excp and cexp records.
	MarkErrors bool
}

// NewEventSink creates an EventSink.
func NewEventSink(markErrors bool) *EventSink {
	return &EventSink{MarkErrors: markErrors}
}

// Emit adds rec to the span in ctx.
func (s *EventSink) Emit(ctx context.Context, rec core.Record) {
	AddRecordEvent(FromContext(ctx), rec, s.MarkErrors)
}
