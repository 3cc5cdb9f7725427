// Package util provides reflection helpers for inspecting and calling Go funcs.
package util

import (
	"context"
	"errors"
	"reflect"
	"runtime"
	"strings"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// FuncInfo describes the shape of a func type as seen by the tracer.
type FuncInfo struct {
	Type reflect.Type
	// Name is the short name of the function ("Handle", "func1" for closures).
	Name string
	// HasContext is true when the first parameter is a context.Context.
	HasContext bool
	// Params is the number of declared parameters, excluding the context
	// and the variadic tail.
	Params int
	// Variadic is true when the final parameter is variadic.
	Variadic bool
	// HasError is true when the final result is an error.
	HasError bool
}

// InspectFunc returns the FuncInfo for fn.
//
// Returns error if:
//   - fn is nil.
//   - fn is not a func.
//   - fn is a nil func value.
func InspectFunc(fn any) (*FuncInfo, error) {
	if fn == nil {
		return nil, errors.New("InspectFunc: nil callable")
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, errors.New("InspectFunc: expected func, got " + v.Kind().String())
	}
	if v.IsNil() {
		return nil, errors.New("InspectFunc: nil func value")
	}

	t := v.Type()
	info := &FuncInfo{
		Type:     t,
		Name:     FuncName(v),
		Variadic: t.IsVariadic(),
	}

	n := t.NumIn()
	if n > 0 && t.In(0) == contextType {
		info.HasContext = true
	}
	info.Params = n
	if info.HasContext {
		info.Params--
	}
	if info.Variadic {
		info.Params--
	}

	if out := t.NumOut(); out > 0 && t.Out(out-1) == errorType {
		info.HasError = true
	}

	return info, nil
}

// FuncName returns the short name of the function held by v.
// Package path, receiver and closure prefixes are stripped:
//
//	github.com/acme/pkg.(*Server).Handle -> Handle
//	github.com/acme/pkg.Run.func1       -> func1
func FuncName(v reflect.Value) string {
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	name := strings.ReplaceAll(f.Name(), "[...]", "")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	// Method values carry a "-fm" suffix.
	return strings.TrimSuffix(name, "-fm")
}

// ContextFrom returns the context carried by args when the function takes one,
// or context.Background otherwise. A nil context argument also yields Background.
func ContextFrom(info *FuncInfo, args []reflect.Value) context.Context {
	if !info.HasContext || len(args) == 0 {
		return context.Background()
	}
	if ctx, ok := args[0].Interface().(context.Context); ok && ctx != nil {
		return ctx
	}
	return context.Background()
}

// ValuesToInterfaces converts reflect values to their interface form.
// Invalid values become nil.
func ValuesToInterfaces(values []reflect.Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if v.IsValid() && v.CanInterface() {
			out[i] = v.Interface()
		}
	}
	return out
}

// SplitResults separates the results of a call into the return value and the error.
//
// Rules:
//   - A trailing error result is returned separately (nil when it is a nil interface).
//   - No remaining results yields a nil return value.
//   - One remaining result yields that value.
//   - Several remaining results yield a []any in declaration order.
func SplitResults(info *FuncInfo, results []reflect.Value) (any, error) {
	var err error
	if info.HasError && len(results) > 0 {
		last := results[len(results)-1]
		if !last.IsNil() {
			err, _ = last.Interface().(error)
		}
		results = results[:len(results)-1]
	}

	switch len(results) {
	case 0:
		return nil, err
	case 1:
		return ValuesToInterfaces(results)[0], err
	default:
		return ValuesToInterfaces(results), err
	}
}
