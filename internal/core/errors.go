package core

import (
	"errors"
	"fmt"
	"reflect"
)

// Predefined errors returned by calltrace decoration.
var (
	// ErrIntrospection is returned when a callable's signature cannot be determined.
	ErrIntrospection = errors.New("cannot introspect callable signature")
	// ErrInvalidSignature is returned when a caller-supplied signature is malformed.
	ErrInvalidSignature = fmt.Errorf("%w: invalid signature", ErrIntrospection)
)

// WrapError wraps an error with additional context message.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}

// PanicError carries a value recovered from a panicking callable so it can be
// reported like any other error before the panic is resumed.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprint(e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ErrorTypeName returns the dynamic type name of err without pointer
// indirection or package qualifier, e.g. "PathError" for *fs.PathError.
func ErrorTypeName(err error) string {
	if err == nil {
		return "nil"
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
