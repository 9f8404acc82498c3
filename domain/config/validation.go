package config

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/kara-go/domain/agent"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the JSON path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e ValidationErrors) Unwrap() error {
	if len(e) == 0 {
		return nil
	}
	return ErrValidationFailed
}

// Validator validates game configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *GameConfig) ValidationErrors {
	v.errors = nil

	v.validateWorld(config)
	v.validateRoutine(config)
	v.validateReplay(config)
	v.validateLogging(config)
	v.validateResilience(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateWorld(config *GameConfig) {
	if strings.TrimSpace(config.World) != "" && config.WorldFile != "" {
		v.addError("world_file", "world and world_file are mutually exclusive")
	}
}

func (v *Validator) validateRoutine(config *GameConfig) {
	if config.Routine.Name != "" && len(config.Routine.Script) > 0 {
		v.addError("routine", "name and script are mutually exclusive")
	}
	for i, step := range config.Routine.Script {
		if _, err := agent.ParseAction(step); err != nil {
			v.addError(fmt.Sprintf("routine.script[%d]", i), fmt.Sprintf("unknown action: %s", step))
		}
	}
}

func (v *Validator) validateReplay(config *GameConfig) {
	if config.Replay.Delay < 0 {
		v.addError("replay.delay", "delay must be non-negative")
	}
	if config.Replay.MaxActions < 0 {
		v.addError("replay.max_actions", "max_actions must be non-negative")
	}
}

func (v *Validator) validateLogging(config *GameConfig) {
	if config.Logging.Level != "" {
		validLevels := map[string]bool{
			"trace": true, "debug": true, "info": true, "warn": true, "error": true,
		}
		if !validLevels[strings.ToLower(config.Logging.Level)] {
			v.addError("logging.level", fmt.Sprintf("invalid level: %s", config.Logging.Level))
		}
	}
	if config.Logging.Format != "" {
		validFormats := map[string]bool{"console": true, "json": true}
		if !validFormats[strings.ToLower(config.Logging.Format)] {
			v.addError("logging.format", fmt.Sprintf("invalid format: %s", config.Logging.Format))
		}
	}
}

func (v *Validator) validateResilience(config *GameConfig) {
	retry := config.Resilience.Retry
	if !retry.Enabled {
		return
	}
	if retry.MaxAttempts <= 0 {
		v.addError("resilience.retry.max_attempts", "max_attempts must be positive when enabled")
	}
	if retry.Multiplier < 1 {
		v.addError("resilience.retry.multiplier", "multiplier must be >= 1")
	}
	if retry.MaxDelay > 0 && retry.InitialDelay > retry.MaxDelay {
		v.addError("resilience.retry.initial_delay", "initial_delay must not exceed max_delay")
	}
}
