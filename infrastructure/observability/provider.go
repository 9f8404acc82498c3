package observability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Provider manages the observability infrastructure. Providers are kept
// local rather than installed globally.
type Provider struct {
	config         Config
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	reader         *sdkmetric.ManualReader
	shutdownFuncs  []func(context.Context) error
}

// New creates a new observability provider.
func New(opts ...Option) (*Provider, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Provider{
		config:         cfg,
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)

	if cfg.Tracing.Enabled {
		if err := p.setupTracing(res); err != nil {
			return nil, err
		}
	}
	if cfg.Metrics.Enabled {
		p.setupMetrics(res)
	}

	return p, nil
}

// setupTracing initializes the tracing infrastructure.
func (p *Provider) setupTracing(res *resource.Resource) error {
	var exporter sdktrace.SpanExporter

	switch p.config.Tracing.Exporter {
	case ExporterStdout:
		exp, err := stdouttrace.New(
			stdouttrace.WithWriter(p.config.Tracing.Output),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("create stdout exporter: %w", err)
		}
		exporter = exp

	case ExporterNoop, "":
		return nil

	default:
		return fmt.Errorf("unknown trace exporter type: %s", p.config.Tracing.Exporter)
	}

	var sampler sdktrace.Sampler
	switch rate := p.config.Tracing.SampleRate; {
	case rate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case rate <= 0.0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(rate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(p.config.Tracing.BatchTimeout)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	p.tracerProvider = tp
	p.shutdownFuncs = append(p.shutdownFuncs, tp.Shutdown)
	return nil
}

// setupMetrics installs an SDK meter provider read on demand.
func (p *Provider) setupMetrics(res *resource.Resource) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)

	p.reader = reader
	p.meterProvider = mp
	p.shutdownFuncs = append(p.shutdownFuncs, mp.Shutdown)
}

// Tracer returns a tracer for run spans.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracerProvider.Tracer(p.config.ServiceName)
}

// MeterProvider returns the meter provider for telemetry instruments.
func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.meterProvider
}

// MetricSummary is the collected value of one instrument.
type MetricSummary struct {
	Name  string
	Unit  string
	Value float64
	Count uint64
}

// Summary collects the current metric values. Sums report their total;
// histograms report their sum and sample count.
func (p *Provider) Summary(ctx context.Context) ([]MetricSummary, error) {
	if p.reader == nil {
		return nil, nil
	}

	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}

	var out []MetricSummary
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			s := MetricSummary{Name: m.Name, Unit: m.Unit}
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					s.Value += float64(dp.Value)
					s.Count++
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					s.Value += dp.Sum
					s.Count += dp.Count
				}
			case metricdata.Histogram[int64]:
				for _, dp := range data.DataPoints {
					s.Value += float64(dp.Sum)
					s.Count += dp.Count
				}
			default:
				continue
			}
			out = append(out, s)
		}
	}
	return out, nil
}

// Shutdown flushes exporters and releases resources.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range p.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// NewNoopProvider creates a provider with no-op tracer and meter.
func NewNoopProvider() *Provider {
	return &Provider{
		config:         DefaultConfig(),
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
	}
}
