package core

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/calltrace/internal/logger"
)

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)

	s.Emit(context.Background(), Record{Kind: KindEntry, Name: "f", Args: "a=1"})
	s.Output("exit", "f", "=", "2")

	assert.Equal(t, "entr f(a=1)\nexit f = 2\n", buf.String())
}

func TestSinkFunc(t *testing.T) {
	var got Record
	s := SinkFunc(func(_ context.Context, rec Record) { got = rec })

	s.Emit(context.Background(), Record{Kind: KindCall, Name: "g"})
	assert.Equal(t, KindCall, got.Kind)
}

func TestLoggerSink(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, nil)))
	s := NewLoggerSink(l)

	s.Emit(context.Background(), Record{
		Kind: KindCallException, Name: "h", Args: "a=1", ErrType: "ValueError", ErrMsg: "bad",
		Timed: true, Elapsed: 3 * time.Microsecond,
	})

	out := buf.String()
	assert.Contains(t, out, `"msg":"cexp h(a=1) raised ValueError bad (3 usecs)"`)
	assert.Contains(t, out, `"kind":"cexp"`)
	assert.Contains(t, out, `"func":"h"`)
	assert.Contains(t, out, `"args":"a=1"`)
	assert.Contains(t, out, `"error_type":"ValueError"`)
	assert.Contains(t, out, `"error":"bad"`)
	assert.Contains(t, out, `"elapsed_us":3`)
}

func TestRecordFields(t *testing.T) {
	assert.Equal(t,
		[]any{"kind", "entr", "func", "f", "args", "a=1"},
		RecordFields(Record{Kind: KindEntry, Name: "f", Args: "a=1", Timed: true}))
	assert.Equal(t,
		[]any{"kind", "exit", "func", "f", "result", "2"},
		RecordFields(Record{Kind: KindExit, Name: "f", Result: "2"}))
}

func TestLogrContextSink(t *testing.T) {
	var lines []string
	log := funcr.New(func(_, args string) { lines = append(lines, args) }, funcr.Options{Verbosity: 1})

	f, err := Wrap(MustSignature("f", []Param{P("a")}, "", ""), returning(2),
		WithOutput(LogrContextSink{Level: 1}))
	require.NoError(t, err)

	_, _ = f(logr.NewContext(context.Background(), log), []any{1}, nil)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg"="entr f(a=1)"`)
	assert.Contains(t, lines[1], `"msg"="exit f = 2"`)
	assert.Contains(t, lines[1], `"result"="2"`)

	// No logger in context: discarded.
	_, err = f(context.Background(), []any{1}, nil)
	assert.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestLogrContextSink_VerbosityFilter(t *testing.T) {
	var lines []string
	log := funcr.New(func(_, args string) { lines = append(lines, args) }, funcr.Options{Verbosity: 0})
	ctx := logr.NewContext(context.Background(), log)

	LogrContextSink{Level: 2}.Emit(ctx, Record{Kind: KindEntry, Name: "f"})
	assert.Empty(t, lines)
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	s := Multi(a, nil, b)

	s.Emit(context.Background(), Record{Kind: KindExit, Name: "f", Result: "1"})
	assert.Equal(t, []string{"exit f = 1"}, a.lines())
	assert.Equal(t, []string{"exit f = 1"}, b.lines())
}
