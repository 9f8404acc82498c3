// Package telemetry provides OpenTelemetry metrics for Kara runs.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	runs             metric.Int64Counter
	phaseTransitions metric.Int64Counter
	actionsCaptured  metric.Int64Counter
	actionsReplayed  metric.Int64Counter
	manualActions    metric.Int64Counter
	errors           metric.Int64Counter

	// Histograms
	runDuration metric.Float64Histogram
	logSize     metric.Int64Histogram

	// Gauges (using UpDownCounter for OpenTelemetry)
	activeRuns metric.Int64UpDownCounter

	initErr error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter (default: "github.com/felixgeelhaar/kara-go").
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
	// Provider supplies the meter. Nil uses the global provider.
	Provider metric.MeterProvider
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/kara-go",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	def := DefaultMetricsConfig()
	if config.MeterName == "" {
		config.MeterName = def.MeterName
	}
	if config.MeterVersion == "" {
		config.MeterVersion = def.MeterVersion
	}

	provider := config.Provider
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{meter: meter}
	mp.initErr = mp.initInstruments()
	return mp
}

// initInstruments initializes all metric instruments.
func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.runs, err = mp.meter.Int64Counter(
		"kara.runs",
		metric.WithDescription("Number of finished runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	mp.phaseTransitions, err = mp.meter.Int64Counter(
		"kara.phase.transitions",
		metric.WithDescription("Number of run phase transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	mp.actionsCaptured, err = mp.meter.Int64Counter(
		"kara.actions.captured",
		metric.WithDescription("Actions recorded during capture"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return err
	}

	mp.actionsReplayed, err = mp.meter.Int64Counter(
		"kara.actions.replayed",
		metric.WithDescription("Actions applied to the live world during replay"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return err
	}

	mp.manualActions, err = mp.meter.Int64Counter(
		"kara.actions.manual",
		metric.WithDescription("Actions triggered by key presses"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return err
	}

	mp.errors, err = mp.meter.Int64Counter(
		"kara.errors",
		metric.WithDescription("Number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	mp.runDuration, err = mp.meter.Float64Histogram(
		"kara.run.duration",
		metric.WithDescription("Duration of runs including replay delays"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.logSize, err = mp.meter.Int64Histogram(
		"kara.capture.log_size",
		metric.WithDescription("Length of captured action logs"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return err
	}

	mp.activeRuns, err = mp.meter.Int64UpDownCounter(
		"kara.runs.active",
		metric.WithDescription("Number of runs in progress"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordPhaseTransition records a run phase transition.
func (mp *MetricsProvider) RecordPhaseTransition(ctx context.Context, from, to string) {
	mp.phaseTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("phase.from", from),
		attribute.String("phase.to", to),
	))
}

// RecordCapture records the log a routine produced.
func (mp *MetricsProvider) RecordCapture(ctx context.Context, routine string, actions []string, success bool) {
	for _, a := range actions {
		mp.actionsCaptured.Add(ctx, 1, metric.WithAttributes(
			attribute.String("action", a),
		))
	}
	mp.logSize.Record(ctx, int64(len(actions)), metric.WithAttributes(
		attribute.String("routine", routine),
		attribute.Bool("success", success),
	))
}

// RecordReplayedAction records one action applied during replay.
func (mp *MetricsProvider) RecordReplayedAction(ctx context.Context, action string) {
	mp.actionsReplayed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
	))
}

// RecordManualAction records an action triggered by a key.
func (mp *MetricsProvider) RecordManualAction(ctx context.Context, action string, success bool) {
	mp.manualActions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.Bool("success", success),
	))
}

// RecordError records an error.
func (mp *MetricsProvider) RecordError(ctx context.Context, errorType string, details map[string]string) {
	attrs := []attribute.KeyValue{
		attribute.String("error.type", errorType),
	}
	for k, v := range details {
		attrs = append(attrs, attribute.String(k, v))
	}

	mp.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRunDuration records a finished run.
func (mp *MetricsProvider) RecordRunDuration(ctx context.Context, duration time.Duration, finalPhase string, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("phase.final", finalPhase),
		attribute.Bool("success", success),
	}

	mp.runs.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.runDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// IncrementActiveRuns increments the active runs counter.
func (mp *MetricsProvider) IncrementActiveRuns(ctx context.Context) {
	mp.activeRuns.Add(ctx, 1)
}

// DecrementActiveRuns decrements the active runs counter.
func (mp *MetricsProvider) DecrementActiveRuns(ctx context.Context) {
	mp.activeRuns.Add(ctx, -1)
}

// NoopMetricsProvider is a no-op metrics provider for testing or when metrics are disabled.
type NoopMetricsProvider struct{}

// RecordPhaseTransition is a no-op.
func (n *NoopMetricsProvider) RecordPhaseTransition(ctx context.Context, from, to string) {}

// RecordCapture is a no-op.
func (n *NoopMetricsProvider) RecordCapture(ctx context.Context, routine string, actions []string, success bool) {
}

// RecordReplayedAction is a no-op.
func (n *NoopMetricsProvider) RecordReplayedAction(ctx context.Context, action string) {}

// RecordManualAction is a no-op.
func (n *NoopMetricsProvider) RecordManualAction(ctx context.Context, action string, success bool) {}

// RecordError is a no-op.
func (n *NoopMetricsProvider) RecordError(ctx context.Context, errorType string, details map[string]string) {
}

// RecordRunDuration is a no-op.
func (n *NoopMetricsProvider) RecordRunDuration(ctx context.Context, duration time.Duration, finalPhase string, success bool) {
}

// IncrementActiveRuns is a no-op.
func (n *NoopMetricsProvider) IncrementActiveRuns(ctx context.Context) {}

// DecrementActiveRuns is a no-op.
func (n *NoopMetricsProvider) DecrementActiveRuns(ctx context.Context) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordPhaseTransition(ctx context.Context, from, to string)
	RecordCapture(ctx context.Context, routine string, actions []string, success bool)
	RecordReplayedAction(ctx context.Context, action string)
	RecordManualAction(ctx context.Context, action string, success bool)
	RecordError(ctx context.Context, errorType string, details map[string]string)
	RecordRunDuration(ctx context.Context, duration time.Duration, finalPhase string, success bool)
	IncrementActiveRuns(ctx context.Context)
	DecrementActiveRuns(ctx context.Context)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = (*NoopMetricsProvider)(nil)
)
