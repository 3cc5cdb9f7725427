package core

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/coregx/calltrace/internal/logger"
)

// Formatter renders a value for a record. name is the parameter name, "*args"
// or "**kwargs" for catch-alls, and "" for return values.
type Formatter func(name string, value any) string

// Repr is the default Formatter. It ignores name and renders:
//   - nil as nil, Unset as <unset>.
//   - strings quoted.
//   - errors as their quoted message.
//   - slices and arrays as [a, b] (byte slices quoted).
//   - maps as {k: v} with keys in sorted order.
//   - anything else with fmt's %v.
func Repr(_ string, value any) string {
	var sb strings.Builder
	writeRepr(&sb, value)
	return sb.String()
}

func writeRepr(sb *strings.Builder, value any) {
	switch v := value.(type) {
	case nil:
		sb.WriteString("nil")
		return
	case unset:
		sb.WriteString(v.String())
		return
	case string:
		sb.WriteString(strconv.Quote(v))
		return
	case []byte:
		sb.WriteString(strconv.Quote(string(v)))
		return
	case error:
		if isNilPointer(value) {
			sb.WriteString("nil")
			return
		}
		sb.WriteString(strconv.Quote(callMethod(v.Error)))
		return
	case fmt.Stringer:
		if isNilPointer(value) {
			sb.WriteString("nil")
			return
		}
		sb.WriteString(callMethod(v.String))
		return
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			sb.WriteString("[]")
			return
		}
		sb.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeRepr(sb, interfaceOf(rv.Index(i)))
		}
		sb.WriteByte(']')
	case reflect.Map:
		keys := rv.MapKeys()
		rendered := make([]string, len(keys))
		for i, k := range keys {
			rendered[i] = Repr("", interfaceOf(k))
		}
		order := make([]int, len(keys))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(i, j int) bool { return rendered[order[i]] < rendered[order[j]] })

		sb.WriteByte('{')
		for n, i := range order {
			if n > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(rendered[i])
			sb.WriteString(": ")
			writeRepr(sb, interfaceOf(rv.MapIndex(keys[i])))
		}
		sb.WriteByte('}')
	case reflect.Ptr:
		if rv.IsNil() {
			sb.WriteString("nil")
			return
		}
		fmt.Fprintf(sb, "%+v", value)
	default:
		fmt.Fprintf(sb, "%v", value)
	}
}

func isNilPointer(value any) bool {
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// callMethod runs an Error or String method, rendering a panic in it the
// way fmt does instead of letting it escape into the traced call.
func callMethod(m func() string) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("%%!v(PANIC=%v)", r)
		}
	}()
	return m()
}

func interfaceOf(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

// Sanitized returns a Formatter that renders with f, then masks values of
// sensitive parameters and truncates long output using s. Keys of the
// keyword catch-all are checked like parameter names.
func Sanitized(f Formatter, s *logger.Sanitizer) Formatter {
	if f == nil {
		f = Repr
	}
	return func(name string, value any) string {
		if strings.HasPrefix(name, "**") {
			value = maskKeywords(s, value)
		}
		return s.MaskValue(name, f(name, value))
	}
}

// masked is rendered verbatim by Repr.
type masked string

func (m masked) String() string { return string(m) }

func maskKeywords(s *logger.Sanitizer, value any) any {
	var kw map[string]any
	switch v := value.(type) {
	case map[string]any:
		kw = v
	case Kwargs:
		kw = v
	default:
		return value
	}

	out := make(map[string]any, len(kw))
	for k, v := range kw {
		if s.IsSensitive(k) {
			out[k] = masked(s.MaskValue(k, ""))
			continue
		}
		out[k] = v
	}
	return out
}

// argList renders the argument list of one call on first use and reuses it
// for every later record of the same call.
type argList struct {
	sig      *Signature
	format   Formatter
	args     []any
	kwargs   Kwargs
	rendered *string
}

func (a *argList) String() string {
	if a.rendered == nil {
		s := Bind(a.sig, a.args, a.kwargs).Render(a.sig, a.format)
		a.rendered = &s
	}
	return *a.rendered
}
