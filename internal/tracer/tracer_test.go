package tracer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/coregx/calltrace/internal/core"
)

func newTestProvider() (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	return exporter, tp
}

func attrMap(attrs []attribute.KeyValue) map[string]interface{} {
	m := make(map[string]interface{})
	for _, attr := range attrs {
		m[string(attr.Key)] = attr.Value.AsInterface()
	}
	return m
}

func TestNoopSpan(t *testing.T) {
	span := &NoopSpan{}

	// Should not panic
	span.AddEvent("calltrace.entr", attribute.String("key", "value"))
	span.SetStatus(codes.Error, "error")
}

func TestFromContext_NoSpan(t *testing.T) {
	span := FromContext(context.Background())
	assert.IsType(t, &NoopSpan{}, span)
}

func TestFromContext_RecordingSpan(t *testing.T) {
	_, _ = newTestProvider()

	ctx, span := otel.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	assert.IsType(t, &OtelSpan{}, FromContext(ctx))
}

func TestRecordAttributes(t *testing.T) {
	tests := []struct {
		name    string
		rec     core.Record
		want    map[string]interface{}
		missing []string
	}{
		{
			name: "entry",
			rec:  core.Record{Kind: core.KindEntry, Name: "f", Args: "a=1, b=2", Timed: true},
			want: map[string]interface{}{
				"code.function":    "f",
				"calltrace.kind":   "entr",
				"calltrace.args":   "a=1, b=2",
				"calltrace.record": "entr f(a=1, b=2)",
			},
			missing: []string{"calltrace.elapsed_us", "calltrace.result"},
		},
		{
			name: "call with timing",
			rec: core.Record{Kind: core.KindCall, Name: "g", Args: "a=5, b=9", Result: "3",
				Timed: true, Elapsed: 42 * time.Microsecond},
			want: map[string]interface{}{
				"calltrace.kind":       "call",
				"calltrace.result":     "3",
				"calltrace.elapsed_us": int64(42),
				"calltrace.record":     "call g(a=5, b=9) = 3 (42 usecs)",
			},
		},
		{
			name: "exception",
			rec:  core.Record{Kind: core.KindException, Name: "h", ErrType: "ValueError", ErrMsg: "bad"},
			want: map[string]interface{}{
				"exception.type":    "ValueError",
				"exception.message": "bad",
				"calltrace.record":  "excp h raised ValueError bad",
			},
			missing: []string{"calltrace.args"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := attrMap(RecordAttributes(tt.rec))
			for k, v := range tt.want {
				assert.Equal(t, v, got[k], k)
			}
			for _, k := range tt.missing {
				assert.NotContains(t, got, k)
			}
		})
	}
}

func TestEventSink_TracedCall(t *testing.T) {
	exporter, tp := newTestProvider()

	add, err := core.Trace(func(ctx context.Context, a, b int) int { return a + b },
		core.WithName("add"),
		core.WithParams("a", "b"),
		core.WithOutput(NewEventSink(true)),
	)
	require.NoError(t, err)

	ctx, span := otel.Tracer("test").Start(context.Background(), "handler")
	assert.Equal(t, 3, add(ctx, 1, 2))
	span.End()

	_ = tp.ForceFlush(ctx)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	events := spans[0].Events
	require.Len(t, events, 2)

	assert.Equal(t, "calltrace.entr", events[0].Name)
	assert.Equal(t, "entr add(a=1, b=2)", attrMap(events[0].Attributes)["calltrace.record"])
	assert.Equal(t, "calltrace.exit", events[1].Name)
	assert.Equal(t, "exit add = 3", attrMap(events[1].Attributes)["calltrace.record"])
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
}

func TestEventSink_ErrorMarksSpan(t *testing.T) {
	exporter, tp := newTestProvider()

	fail, err := core.Trace(func(ctx context.Context, id int) error { return errors.New("not found") },
		core.WithName("load"),
		core.WithParams("id"),
		core.OnCall(core.Never[core.Call]()),
		core.WithOutput(NewEventSink(true)),
	)
	require.NoError(t, err)

	ctx, span := otel.Tracer("test").Start(context.Background(), "handler")
	assert.EqualError(t, fail(ctx, 7), "not found")
	span.End()

	_ = tp.ForceFlush(ctx)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "calltrace.cexp", spans[0].Events[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "errorString: not found", spans[0].Status.Description)
}

func TestEventSink_NoSpanInContext(t *testing.T) {
	sink := NewEventSink(false)

	// Should not panic
	sink.Emit(context.Background(), core.Record{Kind: core.KindEntry, Name: "f"})
}

func BenchmarkEventSink(b *testing.B) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	ctx, span := otel.Tracer("benchmark").Start(context.Background(), "op")
	defer span.End()

	sink := NewEventSink(false)
	rec := core.Record{Kind: core.KindCall, Name: "g", Args: "a=5, b=9", Result: "3"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sink.Emit(ctx, rec)
	}
}
