package ioc

import (
	"log/slog"
	"os"

	"github.com/centraunit/ioc/props"
)

// Option configures a Container created by New.
type Option func(*Container)

// WithLogger sets the structured logger. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPropertySource sets the source consulted by GetProperty and friends
// when no override was set with SetProperty.
func WithPropertySource(s props.Source) Option {
	return func(c *Container) {
		c.source = s
	}
}

// WithShutdownSignals sets the signals that trigger the hook installed by
// [Container.RegisterShutdownHook]. The default is SIGINT and SIGTERM.
func WithShutdownSignals(sigs ...os.Signal) Option {
	return func(c *Container) {
		if len(sigs) > 0 {
			c.signals = sigs
		}
	}
}
