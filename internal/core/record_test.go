package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecord_String(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "entry",
			rec:  Record{Kind: KindEntry, Name: "f", Args: "a=1, b=2"},
			want: "entr f(a=1, b=2)",
		},
		{
			name: "entry ignores timing",
			rec:  Record{Kind: KindEntry, Name: "f", Args: "a=1", Timed: true, Elapsed: time.Second},
			want: "entr f(a=1)",
		},
		{
			name: "exit",
			rec:  Record{Kind: KindExit, Name: "f", Result: "3"},
			want: "exit f = 3",
		},
		{
			name: "exit timed",
			rec:  Record{Kind: KindExit, Name: "f", Result: "3", Timed: true, Elapsed: 1500 * time.Nanosecond},
			want: "exit f = 3 (1 usecs)",
		},
		{
			name: "call",
			rec:  Record{Kind: KindCall, Name: "g", Args: "a=5, b=9", Result: "3"},
			want: "call g(a=5, b=9) = 3",
		},
		{
			name: "exception",
			rec:  Record{Kind: KindException, Name: "h", ErrType: "ValueError", ErrMsg: "bad"},
			want: "excp h raised ValueError bad",
		},
		{
			name: "call exception timed",
			rec: Record{Kind: KindCallException, Name: "h", Args: "a=1", ErrType: "ValueError",
				ErrMsg: "bad", Timed: true, Elapsed: 12 * time.Microsecond},
			want: "cexp h(a=1) raised ValueError bad (12 usecs)",
		},
		{
			name: "negative elapsed clamps to zero",
			rec:  Record{Kind: KindExit, Name: "f", Result: "nil", Timed: true, Elapsed: -time.Millisecond},
			want: "exit f = nil (0 usecs)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.String())
		})
	}
}

func TestKind(t *testing.T) {
	assert.True(t, KindEntry.HasArgs())
	assert.True(t, KindCall.HasArgs())
	assert.True(t, KindCallException.HasArgs())
	assert.False(t, KindExit.HasArgs())
	assert.False(t, KindException.HasArgs())

	assert.True(t, KindException.IsError())
	assert.True(t, KindCallException.IsError())
	assert.False(t, KindCall.IsError())
}

func TestErrorTypeName(t *testing.T) {
	assert.Equal(t, "nil", ErrorTypeName(nil))
	assert.Equal(t, "PanicError", ErrorTypeName(&PanicError{Value: 1}))
	assert.Equal(t, "wrappedError", ErrorTypeName(WrapError(ErrIntrospection, "x")))
	assert.Equal(t, "errorString", ErrorTypeName(errors.New("plain")))
	assert.Equal(t, "codeError", ErrorTypeName(&codeError{1}))
}
