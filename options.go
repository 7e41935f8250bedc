package injector

import (
	"log/slog"
)

// Option is a functional option for configuring a Guard or a Registry.
type Option func(*options)

type options struct {
	logger            *slog.Logger
	eagerCheck        bool
	blockOnInstrument bool
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for registration, construction and rejection events.
// Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEagerCheck makes instrumented wrappers consult the guard before the source
// constructor runs. Without it the source constructor runs first and a blocked
// construction is only rejected afterwards, so any side effects of that constructor
// have already happened by the time ErrConstructionBlocked is returned.
func WithEagerCheck() Option {
	return func(o *options) {
		o.eagerCheck = true
	}
}

// WithBlockOnInstrument blocks the source type as soon as it is instrumented.
func WithBlockOnInstrument() Option {
	return func(o *options) {
		o.blockOnInstrument = true
	}
}
