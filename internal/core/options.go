package core

import (
	"time"

	"github.com/coregx/calltrace/internal/logger"
)

// config is the per-decoration configuration. It is read-only once the
// wrapper has been built.
type config struct {
	sink        Sink
	onCall      Matcher[Call]
	onException Matcher[error]
	onReturn    Matcher[any]
	timing      bool
	format      Formatter
	sanitizer   *logger.Sanitizer
	name        string
	params      []string
	now         func() time.Time
}

func newConfig(opts []Option) *config {
	cfg := &config{
		onCall:      Always[Call](),
		onException: Always[error](),
		onReturn:    Always[any](),
		format:      Repr,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.sink == nil {
		cfg.sink = Stdout()
	}
	if cfg.format == nil {
		cfg.format = Repr
	}
	if cfg.sanitizer != nil {
		cfg.format = Sanitized(cfg.format, cfg.sanitizer)
	}
	return cfg
}

// Option is a functional option for configuring a traced callable.
type Option func(*config)

// WithOutput sets the sink receiving records. Defaults to standard output.
func WithOutput(s Sink) Option {
	return func(c *config) {
		c.sink = s
	}
}

// WithOutputFunc sets a function receiving each record's text as its only fragment.
func WithOutputFunc(fn func(fragments ...string)) Option {
	return func(c *config) {
		if fn != nil {
			c.sink = OutputFunc(fn)
		}
	}
}

// OnCall sets the matcher deciding whether entry records are emitted.
func OnCall(m Matcher[Call]) Option {
	return func(c *config) {
		c.onCall = m
	}
}

// OnException sets the matcher deciding whether error records are emitted.
func OnException(m Matcher[error]) Option {
	return func(c *config) {
		c.onException = m
	}
}

// OnReturn sets the matcher deciding whether exit or call records are emitted.
func OnReturn(m Matcher[any]) Option {
	return func(c *config) {
		c.onReturn = m
	}
}

// WithTiming enables elapsed time reporting in microseconds.
func WithTiming(enabled bool) Option {
	return func(c *config) {
		c.timing = enabled
	}
}

// WithFormatter sets the formatter for arguments and return values.
func WithFormatter(f Formatter) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithSanitizer masks sensitive parameter values and truncates long ones.
func WithSanitizer(s *logger.Sanitizer) Option {
	return func(c *config) {
		c.sanitizer = s
	}
}

// WithName overrides the callable's name in records.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithParams names the parameters of a func passed to Trace.
func WithParams(names ...string) Option {
	return func(c *config) {
		c.params = names
	}
}

// WithClock sets the time source used for timing.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}
