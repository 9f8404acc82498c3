// Package simulation provides the capture and replay machinery: the
// recording wrapper, the timed replay wrapper, the action log and the run
// aggregate.
package simulation

import "time"

// Defaults for a run.
const (
	DefaultMaxActions = 50
	DefaultStepDelay  = 500 * time.Millisecond
)

// Config configures capture and replay.
type Config struct {
	// MaxActions bounds the action log. The (MaxActions+1)-th mutator fails.
	MaxActions int

	// StepDelay is the pause before each replayed action.
	StepDelay time.Duration
}

// DefaultConfig returns a Config with a 50 action log and a 500ms step delay.
func DefaultConfig() Config {
	return Config{
		MaxActions: DefaultMaxActions,
		StepDelay:  DefaultStepDelay,
	}
}

// ConfigOption configures a run.
type ConfigOption func(*Config)

// WithMaxActions sets the log bound. Values below one are ignored.
func WithMaxActions(n int) ConfigOption {
	return func(c *Config) {
		if n > 0 {
			c.MaxActions = n
		}
	}
}

// WithStepDelay sets the replay delay. Negative values are clamped to zero.
func WithStepDelay(d time.Duration) ConfigOption {
	return func(c *Config) {
		if d < 0 {
			d = 0
		}
		c.StepDelay = d
	}
}

// NewConfig applies opts over DefaultConfig.
func NewConfig(opts ...ConfigOption) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
