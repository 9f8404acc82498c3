package config

import (
	"fmt"

	domainconfig "github.com/felixgeelhaar/kara-go/domain/config"
	"github.com/felixgeelhaar/kara-go/domain/routine"
	"github.com/felixgeelhaar/kara-go/domain/simulation"
	"github.com/felixgeelhaar/kara-go/infrastructure/logging"
	"github.com/felixgeelhaar/kara-go/infrastructure/telemetry"
)

// ScriptRoutineName names routines built from an inline script.
const ScriptRoutineName = "script"

// Builder builds game components from configuration.
type Builder struct {
	config   *domainconfig.GameConfig
	routines *routine.Registry
}

// NewBuilder creates a new configuration builder. Routine names are
// resolved against routines; nil uses the built-ins.
func NewBuilder(config *domainconfig.GameConfig, routines *routine.Registry) *Builder {
	if routines == nil {
		routines = routine.Builtins()
	}
	return &Builder{config: config, routines: routines}
}

// BuildResult contains the built components from configuration.
type BuildResult struct {
	// RoutineName is the registered name, or "script".
	RoutineName string
	// Routine drives Kara.
	Routine routine.Routine
	// Simulation holds the replay delay and log bound.
	Simulation simulation.Config
	// Logging configures the logger.
	Logging logging.Config
	// TelemetryEnabled turns the metric instruments on.
	TelemetryEnabled bool
	// TracesEnabled turns span export on.
	TracesEnabled bool
	// Metrics configures the metric instruments.
	Metrics telemetry.MetricsConfig
	// Retry configures world file reads.
	Retry domainconfig.RetryConfig
}

// Build builds the game components from configuration.
func (b *Builder) Build() (*BuildResult, error) {
	cfg := *b.config
	cfg.ApplyDefaults()

	result := &BuildResult{
		Simulation: simulation.NewConfig(
			simulation.WithMaxActions(cfg.Replay.MaxActions),
			simulation.WithStepDelay(cfg.Replay.Delay.Duration()),
		),
		Logging: logging.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		},
		TelemetryEnabled: cfg.Telemetry.Enabled,
		TracesEnabled:    cfg.Telemetry.Traces,
		Metrics: telemetry.MetricsConfig{
			MeterName: cfg.Telemetry.MeterName,
		},
		Retry: cfg.Resilience.Retry,
	}

	if err := b.buildRoutine(&cfg, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (b *Builder) buildRoutine(cfg *domainconfig.GameConfig, result *BuildResult) error {
	if len(cfg.Routine.Script) > 0 {
		script, err := routine.ParseScript(cfg.Routine.Script)
		if err != nil {
			return fmt.Errorf("routine.script: %w", err)
		}
		result.RoutineName = ScriptRoutineName
		result.Routine = script
		return nil
	}

	fn, err := b.routines.Get(cfg.Routine.Name)
	if err != nil {
		return fmt.Errorf("routine.name: %w", err)
	}
	result.RoutineName = cfg.Routine.Name
	result.Routine = fn
	return nil
}
