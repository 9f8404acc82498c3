// Package observability provides OpenTelemetry tracing and an in-process
// metric reader for Kara runs.
package observability

import (
	"io"
	"os"
	"time"
)

// Config configures the observability infrastructure.
type Config struct {
	// ServiceName is the name of the service for telemetry.
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Tracing configures run tracing.
	Tracing TracingConfig

	// Metrics configures metric collection.
	Metrics MetricsConfig
}

// TracingConfig configures run tracing.
type TracingConfig struct {
	// Enabled enables tracing (default: false).
	Enabled bool

	// Exporter specifies the trace exporter type.
	Exporter ExporterType

	// Output is where the stdout exporter writes.
	Output io.Writer

	// SampleRate is the sampling rate (0.0-1.0, default: 1.0).
	SampleRate float64

	// BatchTimeout is the batch export timeout.
	BatchTimeout time.Duration
}

// MetricsConfig configures metric collection.
type MetricsConfig struct {
	// Enabled installs an SDK meter provider with a manual reader.
	Enabled bool
}

// ExporterType specifies the trace exporter.
type ExporterType string

const (
	// ExporterStdout writes spans as JSON.
	ExporterStdout ExporterType = "stdout"

	// ExporterNoop disables export (no-op).
	ExporterNoop ExporterType = "noop"
)

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "kara-go",
		ServiceVersion: "1.0.0",
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     ExporterNoop,
			Output:       os.Stderr,
			SampleRate:   1.0,
			BatchTimeout: 5 * time.Second,
		},
	}
}

// Option configures the observability infrastructure.
type Option func(*Config)

// WithServiceName sets the service name.
func WithServiceName(name string) Option {
	return func(c *Config) {
		c.ServiceName = name
	}
}

// WithServiceVersion sets the service version.
func WithServiceVersion(version string) Option {
	return func(c *Config) {
		c.ServiceVersion = version
	}
}

// WithStdoutTracing enables span export as JSON to w.
func WithStdoutTracing(w io.Writer) Option {
	return func(c *Config) {
		c.Tracing.Enabled = true
		c.Tracing.Exporter = ExporterStdout
		if w != nil {
			c.Tracing.Output = w
		}
	}
}

// WithSampleRate sets the trace sampling rate.
func WithSampleRate(rate float64) Option {
	return func(c *Config) {
		c.Tracing.SampleRate = rate
	}
}

// WithMetrics enables the in-process metric reader.
func WithMetrics() Option {
	return func(c *Config) {
		c.Metrics.Enabled = true
	}
}
