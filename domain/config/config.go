// Package config provides domain models for game configuration.
package config

import "time"

// GameConfig is the complete configuration of a Kara game.
type GameConfig struct {
	// Name is a human-readable name for the scenario.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// World is an inline world spec. Mutually exclusive with WorldFile.
	World string `json:"world,omitempty" yaml:"world,omitempty"`
	// WorldFile is a path to a world spec, relative to the config file.
	WorldFile string `json:"world_file,omitempty" yaml:"world_file,omitempty"`

	// Routine selects what drives Kara.
	Routine RoutineConfig `json:"routine,omitempty" yaml:"routine,omitempty"`
	// Replay configures capture and replay.
	Replay ReplayConfig `json:"replay,omitempty" yaml:"replay,omitempty"`
	// Logging configures structured logging.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	// Telemetry configures metric instruments and tracing.
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
	// Resilience configures world file loading.
	Resilience ResilienceConfig `json:"resilience,omitempty" yaml:"resilience,omitempty"`
}

// RoutineConfig selects a registered routine or an inline action script.
type RoutineConfig struct {
	// Name is a registered routine name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Script is a fixed list of action names.
	Script []string `json:"script,omitempty" yaml:"script,omitempty"`
}

// ReplayConfig configures capture and replay.
type ReplayConfig struct {
	// Delay is the pause before each replayed action.
	Delay Duration `json:"delay,omitempty" yaml:"delay,omitempty"`
	// MaxActions bounds the action log.
	MaxActions int `json:"max_actions,omitempty" yaml:"max_actions,omitempty"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is console or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// TelemetryConfig configures metric instruments and run tracing.
type TelemetryConfig struct {
	// Enabled turns on the OpenTelemetry instruments.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// Traces exports run spans as JSON to stderr.
	Traces bool `json:"traces,omitempty" yaml:"traces,omitempty"`
	// MeterName names the meter the instruments are created on.
	MeterName string `json:"meter_name,omitempty" yaml:"meter_name,omitempty"`
}

// ResilienceConfig contains resilience settings.
type ResilienceConfig struct {
	// Retry configures retries of world file reads.
	Retry RetryConfig `json:"retry,omitempty" yaml:"retry,omitempty"`
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// Enabled enables retry.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// MaxAttempts is the maximum number of attempts.
	MaxAttempts int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	// InitialDelay is the first retry delay.
	InitialDelay Duration `json:"initial_delay,omitempty" yaml:"initial_delay,omitempty"`
	// MaxDelay is the maximum delay between retries.
	MaxDelay Duration `json:"max_delay,omitempty" yaml:"max_delay,omitempty"`
	// Multiplier is the backoff multiplier.
	Multiplier float64 `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
}

// Defaults.
const (
	DefaultName       = "kara"
	DefaultRoutine    = "find-mushroom"
	DefaultDelay      = 500 * time.Millisecond
	DefaultMaxActions = 50
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
	DefaultMeterName  = "github.com/felixgeelhaar/kara-go"
)

// DefaultGameConfig returns the configuration used when no file is given.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Name:    DefaultName,
		Routine: RoutineConfig{Name: DefaultRoutine},
		Replay: ReplayConfig{
			Delay:      Duration(DefaultDelay),
			MaxActions: DefaultMaxActions,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Telemetry: TelemetryConfig{
			MeterName: DefaultMeterName,
		},
		Resilience: ResilienceConfig{
			Retry: RetryConfig{
				Enabled:      true,
				MaxAttempts:  3,
				InitialDelay: Duration(50 * time.Millisecond),
				MaxDelay:     Duration(time.Second),
				Multiplier:   2,
			},
		},
	}
}

// ApplyDefaults fills zero-valued fields from DefaultGameConfig.
// A config with a script keeps an empty routine name.
func (c *GameConfig) ApplyDefaults() {
	def := DefaultGameConfig()

	if c.Name == "" {
		c.Name = def.Name
	}
	if c.Routine.Name == "" && len(c.Routine.Script) == 0 {
		c.Routine.Name = def.Routine.Name
	}
	if c.Replay.Delay == 0 {
		c.Replay.Delay = def.Replay.Delay
	}
	if c.Replay.MaxActions == 0 {
		c.Replay.MaxActions = def.Replay.MaxActions
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Telemetry.MeterName == "" {
		c.Telemetry.MeterName = def.Telemetry.MeterName
	}
	if c.Resilience.Retry == (RetryConfig{}) {
		c.Resilience.Retry = def.Resilience.Retry
	}
}

// Duration is a time.Duration that supports JSON/YAML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	// Handle null
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
