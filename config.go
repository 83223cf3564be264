package optinit

import "github.com/charmbracelet/log"

// TypeOption customizes a host type registry when it is defined.
type TypeOption func(*typeConfig)

type typeConfig struct {
	name     string
	logger   *log.Logger
	delegate bool
}

// WithDelegation lets builders forward operations that are not declared
// options to a finalized instance (see Builder.Call).
func WithDelegation() TypeOption {
	return func(c *typeConfig) {
		c.delegate = true
	}
}

// WithName overrides the host type name used in errors and schemas.
// Panics on an empty name.
func WithName(name string) TypeOption {
	if name == "" {
		panic("optinit: WithName(\"\")")
	}
	return func(c *typeConfig) {
		c.name = name
	}
}

// WithLogger scopes a logger to one host type. Panics on nil.
func WithLogger(l *log.Logger) TypeOption {
	if l == nil {
		panic("optinit: WithLogger(nil)")
	}
	return func(c *typeConfig) {
		c.logger = l
	}
}
