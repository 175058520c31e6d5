package binder

import "go.uber.org/zap"

type options struct {
	logger *zap.Logger
	strict bool
}

// Option configures a Registry, a SharedBinder or a Cache.
type Option func(*options)

// WithLogger routes diagnostics to l. Components log nothing by default.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStrictReaders enables a debug check: offering a different reconstruction
// function for a type that is already bound is logged as a warning. The first
// registration still wins and no error is returned.
func WithStrictReaders() Option {
	return func(o *options) { o.strict = true }
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
