package core

import (
	"errors"
	"reflect"
)

type matcherKind uint8

const (
	matchDisabled matcherKind = iota
	matchAlways
	matchFunc
	matchOneOf
)

// Matcher decides whether an event produces a record.
// The zero value is disabled and never matches.
type Matcher[T any] struct {
	kind   matcherKind
	fn     func(T) bool
	values []T
}

// Never returns a disabled matcher.
func Never[T any]() Matcher[T] {
	return Matcher[T]{}
}

// Always returns a matcher that matches every value.
func Always[T any]() Matcher[T] {
	return Matcher[T]{kind: matchAlways}
}

// When returns a matcher delegating to fn. A nil fn yields a disabled matcher.
func When[T any](fn func(T) bool) Matcher[T] {
	if fn == nil {
		return Never[T]()
	}
	return Matcher[T]{kind: matchFunc, fn: fn}
}

// OneOf returns a matcher testing membership in values.
// OneOf() with no values is enabled but never matches.
func OneOf[T any](values ...T) Matcher[T] {
	return Matcher[T]{kind: matchOneOf, values: append([]T{}, values...)}
}

// Equal returns a matcher testing equality against v.
func Equal[T any](v T) Matcher[T] {
	return OneOf(v)
}

// ErrorOfType returns an error matcher that matches when errors.As finds an E
// in the error chain.
func ErrorOfType[E error]() Matcher[error] {
	return When(func(err error) bool {
		var target E
		return errors.As(err, &target)
	})
}

// Enabled reports whether the matcher was configured to match anything at all.
func (m Matcher[T]) Enabled() bool {
	return m.kind != matchDisabled
}

// Match evaluates the matcher against v.
func (m Matcher[T]) Match(v T) bool {
	switch m.kind {
	case matchAlways:
		return true
	case matchFunc:
		return m.fn(v)
	case matchOneOf:
		for _, candidate := range m.values {
			if equalValues(candidate, v) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// equalValues compares errors with errors.Is and everything else with
// reflect.DeepEqual.
func equalValues(want, got any) bool {
	if wantErr, ok := want.(error); ok {
		if gotErr, ok := got.(error); ok {
			return errors.Is(gotErr, wantErr)
		}
		return false
	}
	return reflect.DeepEqual(want, got)
}
