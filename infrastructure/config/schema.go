package config

import (
	"encoding/json"

	"github.com/felixgeelhaar/kara-go/domain/agent"
)

// JSONSchema represents a JSON Schema document.
type JSONSchema struct {
	Schema               string                 `json:"$schema,omitempty"`
	ID                   string                 `json:"$id,omitempty"`
	Title                string                 `json:"title,omitempty"`
	Description          string                 `json:"description,omitempty"`
	Type                 string                 `json:"type,omitempty"`
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Items                *JSONSchema            `json:"items,omitempty"`
	AdditionalProperties *JSONSchema            `json:"additionalProperties,omitempty"`
	Enum                 []string               `json:"enum,omitempty"`
	Default              any                    `json:"default,omitempty"`
	Minimum              *float64               `json:"minimum,omitempty"`
	Format               string                 `json:"format,omitempty"`
}

// GenerateSchema generates a JSON Schema for the GameConfig.
func GenerateSchema() *JSONSchema {
	return &JSONSchema{
		Schema:      "https://json-schema.org/draft/2020-12/schema",
		ID:          "https://github.com/felixgeelhaar/kara-go/game-config.schema.json",
		Title:       "Kara Game Configuration",
		Description: "Configuration schema for kara-go",
		Type:        "object",
		Properties: map[string]*JSONSchema{
			"name": {
				Type:        "string",
				Description: "A human-readable name for the scenario",
				Default:     "kara",
			},
			"world": {
				Type:        "string",
				Description: "Inline world spec, one row per line",
			},
			"world_file": {
				Type:        "string",
				Description: "Path to a world spec, relative to the config file",
			},
			"routine":    generateRoutineSchema(),
			"replay":     generateReplaySchema(),
			"logging":    generateLoggingSchema(),
			"telemetry":  generateTelemetrySchema(),
			"resilience": generateResilienceSchema(),
		},
	}
}

func generateRoutineSchema() *JSONSchema {
	actions := make([]string, 0, len(agent.AllActions()))
	for _, a := range agent.AllActions() {
		actions = append(actions, a.String())
	}

	return &JSONSchema{
		Type:        "object",
		Description: "What drives Kara: a registered routine or a fixed script",
		Properties: map[string]*JSONSchema{
			"name": {
				Type:        "string",
				Description: "Registered routine name",
				Default:     "find-mushroom",
			},
			"script": {
				Type:        "array",
				Description: "Fixed action list",
				Items:       &JSONSchema{Type: "string", Enum: actions},
			},
		},
	}
}

func generateReplaySchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Capture and replay settings",
		Properties: map[string]*JSONSchema{
			"delay": {
				Type:        "string",
				Description: "Pause before each replayed action (e.g., '500ms')",
				Format:      "duration",
				Default:     "500ms",
			},
			"max_actions": {
				Type:        "integer",
				Description: "Maximum length of the action log",
				Minimum:     floatPtr(0),
				Default:     50,
			},
		},
	}
}

func generateLoggingSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Structured logging",
		Properties: map[string]*JSONSchema{
			"level": {
				Type:    "string",
				Enum:    []string{"trace", "debug", "info", "warn", "error"},
				Default: "info",
			},
			"format": {
				Type:    "string",
				Enum:    []string{"console", "json"},
				Default: "console",
			},
		},
	}
}

func generateTelemetrySchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "OpenTelemetry metrics and run tracing",
		Properties: map[string]*JSONSchema{
			"enabled": {
				Type:    "boolean",
				Default: false,
			},
			"traces": {
				Type:        "boolean",
				Description: "Export run spans as JSON to stderr",
				Default:     false,
			},
			"meter_name": {
				Type:    "string",
				Default: "github.com/felixgeelhaar/kara-go",
			},
		},
	}
}

func generateResilienceSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Resilience settings",
		Properties: map[string]*JSONSchema{
			"retry": {
				Type:        "object",
				Description: "Retries of world file reads",
				Properties: map[string]*JSONSchema{
					"enabled": {
						Type:    "boolean",
						Default: true,
					},
					"max_attempts": {
						Type:    "integer",
						Minimum: floatPtr(1),
						Default: 3,
					},
					"initial_delay": {
						Type:    "string",
						Format:  "duration",
						Default: "50ms",
					},
					"max_delay": {
						Type:    "string",
						Format:  "duration",
						Default: "1s",
					},
					"multiplier": {
						Type:    "number",
						Minimum: floatPtr(1),
						Default: 2.0,
					},
				},
			},
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}

// SchemaJSON returns the JSON Schema as a JSON string.
func SchemaJSON() (string, error) {
	schema := GenerateSchema()
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
