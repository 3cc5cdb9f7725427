package core

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type of a record.
type Kind string

// Record kinds. The values are the leading token of the record text.
const (
	// KindEntry is emitted when a call begins.
	KindEntry Kind = "entr"
	// KindExit is emitted on return after an entry record.
	KindExit Kind = "exit"
	// KindCall is emitted on return when no entry record was shown.
	KindCall Kind = "call"
	// KindException is emitted on error after an entry record.
	KindException Kind = "excp"
	// KindCallException is emitted on error when no entry record was shown.
	KindCallException Kind = "cexp"
)

// HasArgs reports whether records of this kind carry the argument list.
func (k Kind) HasArgs() bool {
	return k == KindEntry || k == KindCall || k == KindCallException
}

// IsError reports whether records of this kind describe a failed call.
func (k Kind) IsError() bool {
	return k == KindException || k == KindCallException
}

// Record is one report about a traced call.
type Record struct {
	Kind Kind
	// Name is the traced callable's name.
	Name string
	// Args is the rendered argument list (entr, call, cexp).
	Args string
	// Result is the rendered return value (exit, call).
	Result string
	// ErrType and ErrMsg describe the error (excp, cexp).
	ErrType string
	ErrMsg  string
	// Elapsed is the call duration, meaningful only when Timed is set.
	Elapsed time.Duration
	Timed   bool
}

// Micros returns the elapsed time in whole microseconds, never negative.
func (r Record) Micros() int64 {
	if us := r.Elapsed.Microseconds(); us > 0 {
		return us
	}
	return 0
}

// String renders the record text, e.g.
//
//	entr f(a=1, b=2)
//	exit f = 3 (12 usecs)
//	cexp h(a=1) raised ValueError bad
func (r Record) String() string {
	var sb strings.Builder
	sb.WriteString(string(r.Kind))
	sb.WriteByte(' ')
	sb.WriteString(r.Name)

	if r.Kind.HasArgs() {
		sb.WriteByte('(')
		sb.WriteString(r.Args)
		sb.WriteByte(')')
	}

	switch r.Kind {
	case KindExit, KindCall:
		sb.WriteString(" = ")
		sb.WriteString(r.Result)
	case KindException, KindCallException:
		sb.WriteString(" raised ")
		sb.WriteString(r.ErrType)
		sb.WriteByte(' ')
		sb.WriteString(r.ErrMsg)
	}

	if r.Timed && r.Kind != KindEntry {
		sb.WriteString(" (")
		sb.WriteString(strconv.FormatInt(r.Micros(), 10))
		sb.WriteString(" usecs)")
	}

	return sb.String()
}
