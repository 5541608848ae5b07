package ecs

import "go.uber.org/zap"

// Option configures optional behavior of the ECS types.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for capacity growth, component
// registration and dispatcher lifecycle messages.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
