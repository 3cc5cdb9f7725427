package core

import (
	"context"
	"reflect"
	"time"

	"github.com/coregx/calltrace/internal/util"
)

// Func is a callable taking positional and keyword arguments.
type Func func(ctx context.Context, args []any, kwargs Kwargs) (any, error)

// Traced is a callable with tracing attached.
// It holds no per-call state and is safe for concurrent use.
type Traced struct {
	sig *Signature
	cfg *config
	fn  Func
}

// New wraps fn, described by sig, with tracing.
//
// Returns error wrapping ErrIntrospection if sig or fn is nil.
func New(sig *Signature, fn Func, opts ...Option) (*Traced, error) {
	if sig == nil {
		return nil, WrapError(ErrIntrospection, "New: nil signature")
	}
	if fn == nil {
		return nil, WrapError(ErrIntrospection, "New: nil callable")
	}

	cfg := newConfig(opts)
	if cfg.name != "" && cfg.name != sig.Name {
		renamed := *sig
		renamed.Name = cfg.name
		sig = &renamed
	}

	return &Traced{sig: sig, cfg: cfg, fn: fn}, nil
}

// Wrap is like New but returns the traced callable as a Func.
func Wrap(sig *Signature, fn Func, opts ...Option) (Func, error) {
	t, err := New(sig, fn, opts...)
	if err != nil {
		return nil, err
	}
	return t.Invoke, nil
}

// Signature returns the descriptor the callable was wrapped with.
func (t *Traced) Signature() *Signature {
	return t.sig
}

// Invoke calls the wrapped callable with args and kwargs passed through
// unchanged, emitting records as configured. The callable's result and error
// are returned as-is; a panic is reported and then resumed.
func (t *Traced) Invoke(ctx context.Context, args []any, kwargs Kwargs) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return t.run(ctx, args, kwargs, func() (any, error) {
		return t.fn(ctx, args, kwargs)
	})
}

// run drives one call: entry record, the call itself, then the exit or error record.
func (t *Traced) run(ctx context.Context, args []any, kwargs Kwargs, call func() (any, error)) (any, error) {
	list := &argList{sig: t.sig, format: t.cfg.format, args: args, kwargs: kwargs}

	entered := false
	if t.cfg.onCall.Match(Call{Args: args, Kwargs: kwargs}) {
		t.cfg.sink.Emit(ctx, Record{Kind: KindEntry, Name: t.sig.Name, Args: list.String()})
		entered = true
	}

	start := t.cfg.now()
	ret, recovered, panicked, err := protect(call)
	elapsed := t.cfg.now().Sub(start)

	if panicked {
		perr, ok := recovered.(error)
		if !ok {
			perr = &PanicError{Value: recovered}
		}
		t.reportError(ctx, list, entered, perr, elapsed)
		panic(recovered)
	}

	if err != nil {
		t.reportError(ctx, list, entered, err, elapsed)
		return ret, err
	}

	if t.cfg.onReturn.Match(ret) {
		rec := Record{
			Kind:    KindExit,
			Name:    t.sig.Name,
			Result:  t.cfg.format("", ret),
			Elapsed: elapsed,
			Timed:   t.cfg.timing,
		}
		if !entered {
			rec.Kind = KindCall
			rec.Args = list.String()
		}
		t.cfg.sink.Emit(ctx, rec)
	}

	return ret, nil
}

func (t *Traced) reportError(ctx context.Context, list *argList, entered bool, err error, elapsed time.Duration) {
	if !t.cfg.onException.Match(err) {
		return
	}
	rec := Record{
		Kind:    KindException,
		Name:    t.sig.Name,
		ErrType: ErrorTypeName(err),
		ErrMsg:  err.Error(),
		Elapsed: elapsed,
		Timed:   t.cfg.timing,
	}
	if !entered {
		rec.Kind = KindCallException
		rec.Args = list.String()
	}
	t.cfg.sink.Emit(ctx, rec)
}

// protect runs call and captures a panic instead of letting it unwind.
func protect(call func() (any, error)) (ret, recovered any, panicked bool, err error) {
	panicked = true
	defer func() {
		if panicked {
			recovered = recover()
		}
	}()
	ret, err = call()
	panicked = false
	return ret, nil, false, err
}

// Trace wraps the Go func fn with tracing and returns a func of the same type.
//
// Parameters are named arg0..argN unless WithParams is given. A leading
// context.Context is passed to the sink and not traced as a parameter. A
// trailing error result is the error reported by excp/cexp records. Records
// name an error by its dynamic type, so errors.New errors show up as
// errorString; return a named error type for readable records.
//
// Example:
//
//	add, err := calltrace.Trace(func(a, b int) int { return a + b },
//	    calltrace.WithName("add"), calltrace.WithParams("a", "b"))
//	add(1, 2) // entr add(a=1, b=2) / exit add = 3
func Trace[F any](fn F, opts ...Option) (F, error) {
	var zero F

	info, err := util.InspectFunc(any(fn))
	if err != nil {
		return zero, WrapError(ErrIntrospection, err.Error())
	}

	cfg := newConfig(opts)
	name := info.Name
	if cfg.name != "" {
		name = cfg.name
	}
	sig, err := describe(info, name, cfg.params)
	if err != nil {
		return zero, err
	}

	t := &Traced{sig: sig, cfg: cfg}
	target := reflect.ValueOf(any(fn))

	wrapped := reflect.MakeFunc(info.Type, func(in []reflect.Value) []reflect.Value {
		ctx := util.ContextFrom(info, in)
		positional := in
		if info.HasContext {
			positional = in[1:]
		}

		args := util.ValuesToInterfaces(positional)
		if info.Variadic {
			tail := positional[len(positional)-1]
			args = args[:len(args)-1]
			for i := 0; i < tail.Len(); i++ {
				args = append(args, tail.Index(i).Interface())
			}
		}

		var out []reflect.Value
		_, _ = t.run(ctx, args, nil, func() (any, error) {
			if info.Variadic {
				out = target.CallSlice(in)
			} else {
				out = target.Call(in)
			}
			return util.SplitResults(info, out)
		})
		return out
	})

	return wrapped.Interface().(F), nil
}

// MustTrace is like Trace but panics if fn cannot be traced.
func MustTrace[F any](fn F, opts ...Option) F {
	traced, err := Trace(fn, opts...)
	if err != nil {
		panic(err)
	}
	return traced
}
