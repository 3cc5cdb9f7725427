// Package calltrace wraps Go callables so that each call's entry, return and
// error are reported through a pluggable sink, with the call's effective
// arguments (declared parameters, defaults and catch-alls) rendered as text.
//
// Records look like:
//
//	entr f(a=1, b=2)
//	exit f = 3
//	call g(a=5, b=9) = 3 (12 usecs)
//	excp h raised ValueError bad
//	cexp h(a=1) raised ValueError bad
//
// Records go to standard output unless another sink is configured: a
// Logger (slog or logr), the logr.Logger in the call's context, the
// OpenTelemetry span in the call's context, or a SQL table.
package calltrace

import (
	"database/sql"

	"github.com/coregx/calltrace/internal/core"
	"github.com/coregx/calltrace/internal/logger"
	"github.com/coregx/calltrace/internal/sqlsink"
	"github.com/coregx/calltrace/internal/tracer"
)

type (
	// Signature describes the declared parameters of a callable.
	Signature = core.Signature
	// Param is a declared parameter.
	Param = core.Param
	// Kwargs holds keyword arguments of a call.
	Kwargs = core.Kwargs
	// Call is the actual argument pair seen by the on-call matcher.
	Call = core.Call
	// Binding is the effective argument set of one call.
	Binding = core.Binding
	// Bound is a declared parameter resolved for one call.
	Bound = core.Bound
	// Func is a callable taking positional and keyword arguments.
	Func = core.Func
	// Traced is a callable with tracing attached.
	Traced = core.Traced
	// Option is a functional option for configuring a traced callable.
	Option = core.Option
	// Formatter renders argument and return values.
	Formatter = core.Formatter
	// Matcher decides whether an event produces a record.
	Matcher[T any] = core.Matcher[T]
	// Record is one report about a traced call.
	Record = core.Record
	// Kind identifies the type of a record.
	Kind = core.Kind
	// Sink receives records.
	Sink = core.Sink
	// SinkFunc adapts a function to Sink.
	SinkFunc = core.SinkFunc
	// OutputFunc adapts a fragment-receiving function to Sink.
	OutputFunc = core.OutputFunc
	// WriterSink prints records to an io.Writer.
	WriterSink = core.WriterSink
	// LoggerSink logs records through a Logger.
	LoggerSink = core.LoggerSink
	// LogrContextSink logs records through the logr.Logger in the call's context.
	LogrContextSink = core.LogrContextSink
	// PanicError carries a value recovered from a panicking callable.
	PanicError = core.PanicError

	// Logger is the structured logger interface used by sinks.
	Logger = logger.Logger
	// Sanitizer masks sensitive parameters and truncates long values.
	Sanitizer = logger.Sanitizer

	// EventSink adds records as events on the span in the call's context.
	EventSink = tracer.EventSink

	// SQLSink stores records in a SQL table.
	SQLSink = sqlsink.Sink
	// SQLSinkOption configures a SQLSink.
	SQLSinkOption = sqlsink.Option
	// StoredRecord is a record read back from a SQLSink.
	StoredRecord = sqlsink.StoredRecord
)

// Record kinds.
const (
	KindEntry         = core.KindEntry
	KindExit          = core.KindExit
	KindCall          = core.KindCall
	KindException     = core.KindException
	KindCallException = core.KindCallException
)

// Errors.
var (
	ErrIntrospection    = core.ErrIntrospection
	ErrInvalidSignature = core.ErrInvalidSignature
)

// Unset marks a declared parameter that received no value and has no default.
var Unset = core.Unset

// Re-export core functions.
var (
	NewSignature  = core.NewSignature
	MustSignature = core.MustSignature
	P             = core.P
	Opt           = core.Opt
	Describe      = core.Describe
	Bind          = core.Bind
	New           = core.New
	Wrap          = core.Wrap
	Repr          = core.Repr
	Sanitized     = core.Sanitized
	ErrorTypeName = core.ErrorTypeName

	// Options
	WithOutput     = core.WithOutput
	WithOutputFunc = core.WithOutputFunc
	OnCall         = core.OnCall
	OnException    = core.OnException
	OnReturn       = core.OnReturn
	WithTiming     = core.WithTiming
	WithFormatter  = core.WithFormatter
	WithSanitizer  = core.WithSanitizer
	WithName       = core.WithName
	WithParams     = core.WithParams
	WithClock      = core.WithClock

	// Sinks
	Stdout        = core.Stdout
	NewWriterSink = core.NewWriterSink
	NewLoggerSink = core.NewLoggerSink
	Multi         = core.Multi
	RecordFields  = core.RecordFields
	NewEventSink  = tracer.NewEventSink

	// Loggers
	NewSlogAdapter = logger.NewSlogAdapter
	NewLogrAdapter = logger.NewLogrAdapter
	NewSanitizer   = logger.NewSanitizer

	// SQL sink options
	WithSQLTable  = sqlsink.WithTable
	WithSQLLogger = sqlsink.WithLogger
	WithSQLClock  = sqlsink.WithClock
)

// NewSQLSink creates a sink storing records in db, opened with driverName
// ("postgres", "mysql", "sqlite" or "sqlite3"). Call EnsureSchema before use.
func NewSQLSink(db *sql.DB, driverName string, opts ...SQLSinkOption) (*SQLSink, error) {
	return sqlsink.New(db, driverName, opts...)
}

// Trace wraps the Go func fn with tracing and returns a func of the same type.
func Trace[F any](fn F, opts ...Option) (F, error) {
	return core.Trace(fn, opts...)
}

// MustTrace is like Trace but panics if fn cannot be traced.
func MustTrace[F any](fn F, opts ...Option) F {
	return core.MustTrace(fn, opts...)
}

// Never returns a disabled matcher.
func Never[T any]() Matcher[T] { return core.Never[T]() }

// Always returns a matcher matching every value.
func Always[T any]() Matcher[T] { return core.Always[T]() }

// When returns a matcher delegating to fn.
func When[T any](fn func(T) bool) Matcher[T] { return core.When(fn) }

// OneOf returns a matcher testing membership in values.
func OneOf[T any](values ...T) Matcher[T] { return core.OneOf(values...) }

// Equal returns a matcher testing equality against v.
func Equal[T any](v T) Matcher[T] { return core.Equal(v) }

// ErrorOfType returns an error matcher using errors.As.
func ErrorOfType[E error]() Matcher[error] { return core.ErrorOfType[E]() }
