package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/kara-go/application"
	domainconfig "github.com/felixgeelhaar/kara-go/domain/config"
	"github.com/felixgeelhaar/kara-go/domain/world"
	infraconfig "github.com/felixgeelhaar/kara-go/infrastructure/config"
	"github.com/felixgeelhaar/kara-go/infrastructure/logging"
	"github.com/felixgeelhaar/kara-go/infrastructure/observability"
	"github.com/felixgeelhaar/kara-go/infrastructure/resilience"
	"github.com/felixgeelhaar/kara-go/infrastructure/telemetry"
)

// session holds everything built from one configuration.
type session struct {
	config  *domainconfig.GameConfig
	build   *infraconfig.BuildResult
	logger  *logging.Logger
	obs     *observability.Provider
	metrics telemetry.Metrics
	worlds  *resilience.WorldLoader
}

// loadConfig loads path, or returns the defaults when path is empty.
func loadConfig(path string, strict bool) (*domainconfig.GameConfig, error) {
	if path == "" {
		cfg := domainconfig.DefaultGameConfig()
		return &cfg, nil
	}

	loader := infraconfig.NewLoaderWithOptions(infraconfig.WithStrictEnv(strict))
	cfg, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newSession validates cfg and builds the logger, telemetry and world loader.
// Undecodable world files are retried only while watching.
func (a *App) newSession(cfg *domainconfig.GameConfig, watching bool) (*session, error) {
	if errs := domainconfig.NewValidator().Validate(cfg); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %v", domainconfig.ErrValidationFailed, errs)
	}

	build, err := infraconfig.NewBuilder(cfg, nil).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build configuration: %w", err)
	}

	logCfg := build.Logging
	logCfg.Output = a.stderr
	logger := logging.Wrap(logging.New(logCfg))

	var obsOpts []observability.Option
	obsOpts = append(obsOpts, observability.WithServiceVersion(Version))
	if build.TelemetryEnabled {
		obsOpts = append(obsOpts, observability.WithMetrics())
	}
	if build.TracesEnabled {
		obsOpts = append(obsOpts, observability.WithStdoutTracing(a.stderr))
	}
	obs, err := observability.New(obsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	var metrics telemetry.Metrics = &telemetry.NoopMetricsProvider{}
	if build.TelemetryEnabled {
		mc := build.Metrics
		mc.MeterVersion = Version
		mc.Provider = obs.MeterProvider()
		provider := telemetry.NewMetricsProvider(mc)
		if err := provider.Error(); err != nil {
			return nil, fmt.Errorf("failed to create metrics: %w", err)
		}
		metrics = provider
	}

	worlds := resilience.LoaderConfigFrom(build.Retry)
	worlds.RetryMalformed = watching

	return &session{
		config:  cfg,
		build:   build,
		logger:  logger,
		obs:     obs,
		metrics: metrics,
		worlds:  resilience.NewWorldLoader(worlds),
	}, nil
}

// loadGrid returns the configured world: the world file, the inline spec,
// or the walled default.
func (s *session) loadGrid(ctx context.Context) (*world.Grid, error) {
	switch {
	case s.config.WorldFile != "":
		return s.worlds.Load(ctx, s.config.WorldFile)
	case strings.TrimSpace(s.config.World) != "":
		return world.ParseSpec(s.config.World)
	default:
		return world.ParseSpec(world.EmptyWorldSpec)
	}
}

// gameOptions wires the session into a game.
func (s *session) gameOptions(extra ...application.Option) []application.Option {
	opts := []application.Option{
		application.WithSimulation(s.build.Simulation),
		application.WithLogger(s.logger),
		application.WithMetrics(s.metrics),
		application.WithTracer(s.obs.Tracer()),
	}
	return append(opts, extra...)
}

// close flushes telemetry.
func (s *session) close(ctx context.Context) {
	if err := s.obs.Shutdown(ctx); err != nil {
		s.logger.Warn().Add(logging.ErrorField(err)).Msg("telemetry shutdown failed")
	}
}

// loadWorldFile reads a world file once, without retries.
func loadWorldFile(ctx context.Context, path string) (*world.Grid, error) {
	loader := resilience.NewWorldLoaderWithOptions(resilience.WithRetry(false))
	return loader.Load(ctx, path)
}

// isConfigPath reports whether path names a configuration file.
func isConfigPath(path string) bool {
	_, err := infraconfig.FormatFromPath(path)
	return err == nil
}
