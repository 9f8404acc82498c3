package application

import (
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/kara-go/domain/agent"
	"github.com/felixgeelhaar/kara-go/domain/simulation"
	"github.com/felixgeelhaar/kara-go/infrastructure/logging"
	"github.com/felixgeelhaar/kara-go/infrastructure/observability"
	"github.com/felixgeelhaar/kara-go/infrastructure/telemetry"
)

// StepObserver is called after each replayed action has been applied to
// the live world. It runs outside the world lock, so it may call Snapshot
// or Draw.
type StepObserver func(step int, a agent.Action)

// Config contains configuration for the game.
type Config struct {
	Simulation  simulation.Config
	Metrics     telemetry.Metrics
	Logger      *logging.Logger
	Tracer      trace.Tracer
	Observer    StepObserver
	IDGenerator func() string
}

// DefaultConfig returns the game defaults.
func DefaultConfig() Config {
	return Config{
		Simulation:  simulation.DefaultConfig(),
		Metrics:     &telemetry.NoopMetricsProvider{},
		Tracer:      observability.NoopTracer(),
		IDGenerator: generateRunID,
	}
}

// Option configures the game.
type Option func(*Config)

// WithSimulation sets the replay delay and log bound together.
func WithSimulation(cfg simulation.Config) Option {
	return func(c *Config) {
		c.Simulation = cfg
	}
}

// WithMaxActions sets the maximum log length.
func WithMaxActions(n int) Option {
	return func(c *Config) {
		simulation.WithMaxActions(n)(&c.Simulation)
	}
}

// WithStepDelay sets the delay before each replayed action.
func WithStepDelay(d time.Duration) Option {
	return func(c *Config) {
		simulation.WithStepDelay(d)(&c.Simulation)
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(c *Config) {
		if m != nil {
			c.Metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithTracer sets the tracer for run spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Config) {
		if t != nil {
			c.Tracer = t
		}
	}
}

// WithStepObserver sets the observer called after each replayed action.
func WithStepObserver(fn StepObserver) Option {
	return func(c *Config) {
		c.Observer = fn
	}
}

// WithIDGenerator overrides run ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(c *Config) {
		if fn != nil {
			c.IDGenerator = fn
		}
	}
}

func generateRunID() string {
	return "run-" + uuid.NewString()
}
