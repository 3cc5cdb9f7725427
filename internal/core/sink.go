package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/coregx/calltrace/internal/logger"
	"github.com/go-logr/logr"
)

// Sink receives the records of traced calls.
// Implementations must be safe for concurrent use when the traced callable is.
type Sink interface {
	Emit(ctx context.Context, rec Record)
}

// SinkFunc adapts a function to the Sink interface.
//
// Example:
//
//	calltrace.WithOutput(calltrace.SinkFunc(func(ctx context.Context, r calltrace.Record) {
//	    slog.InfoContext(ctx, r.String(), "kind", r.Kind)
//	}))
type SinkFunc func(ctx context.Context, rec Record)

// Emit calls f(ctx, rec).
func (f SinkFunc) Emit(ctx context.Context, rec Record) {
	f(ctx, rec)
}

// OutputFunc adapts a function receiving message fragments to the Sink
// interface. Each record is delivered as a single fragment.
type OutputFunc func(fragments ...string)

// Emit calls f(rec.String()).
func (f OutputFunc) Emit(_ context.Context, rec Record) {
	f(rec.String())
}

// WriterSink prints records to an io.Writer, one line per record.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Stdout returns a sink printing to standard output. It is the default sink.
func Stdout() *WriterSink {
	return NewWriterSink(os.Stdout)
}

// Emit writes the record text followed by a newline.
func (s *WriterSink) Emit(_ context.Context, rec Record) {
	s.Output(rec.String())
}

// Output writes the space-joined fragments followed by a newline.
func (s *WriterSink) Output(fragments ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintln(s.w, strings.Join(fragments, " "))
}

// LoggerSink logs each record at Info level through a Logger, with the record
// text as message and its parts as key-value pairs.
type LoggerSink struct {
	logger logger.Logger
}

// NewLoggerSink creates a sink logging through l.
// The provided logger must not be nil.
func NewLoggerSink(l logger.Logger) *LoggerSink {
	return &LoggerSink{logger: l}
}

// Emit logs the record.
func (s *LoggerSink) Emit(_ context.Context, rec Record) {
	s.logger.Info(rec.String(), RecordFields(rec)...)
}

// LogrContextSink logs each record through the logr.Logger carried by the
// call's context, at the given verbosity. Calls without a logger in their
// context are discarded.
type LogrContextSink struct {
	// Level of verbosity to apply to log messages relative to the logger. A higher verbosity level
	// means a log message is less important.
	Level int
}

// Emit logs the record.
func (s LogrContextSink) Emit(ctx context.Context, rec Record) {
	log := logr.FromContextOrDiscard(ctx).V(s.Level)
	if !log.Enabled() {
		return
	}
	log.Info(rec.String(), RecordFields(rec)...)
}

// RecordFields returns the structured key-value pairs describing rec.
func RecordFields(rec Record) []any {
	fields := []any{"kind", string(rec.Kind), "func", rec.Name}
	if rec.Kind.HasArgs() {
		fields = append(fields, "args", rec.Args)
	}
	switch rec.Kind {
	case KindExit, KindCall:
		fields = append(fields, "result", rec.Result)
	case KindException, KindCallException:
		fields = append(fields, "error_type", rec.ErrType, "error", rec.ErrMsg)
	}
	if rec.Timed && rec.Kind != KindEntry {
		fields = append(fields, "elapsed_us", rec.Micros())
	}
	return fields
}

// Multi fans records out to every sink in order. Nil sinks are skipped.
func Multi(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multiSink []Sink

func (m multiSink) Emit(ctx context.Context, rec Record) {
	for _, s := range m {
		s.Emit(ctx, rec)
	}
}
