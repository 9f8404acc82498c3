package config

import (
	"encoding/json"
	"testing"
)

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema()

	if schema.Schema != "https://json-schema.org/draft/2020-12/schema" {
		t.Errorf("Schema = %s, want draft/2020-12", schema.Schema)
	}
	if schema.Type != "object" {
		t.Errorf("Type = %s, want object", schema.Type)
	}

	expectedProps := []string{"name", "world", "world_file", "routine", "replay", "logging", "telemetry", "resilience"}
	for _, prop := range expectedProps {
		if _, ok := schema.Properties[prop]; !ok {
			t.Errorf("missing property: %s", prop)
		}
	}
}

func TestGenerateSchema_RoutineScriptEnum(t *testing.T) {
	script := GenerateSchema().Properties["routine"].Properties["script"]

	if script.Type != "array" || script.Items == nil {
		t.Fatalf("script = %+v", script)
	}
	if len(script.Items.Enum) != 5 {
		t.Errorf("script enum has %d values, want 5", len(script.Items.Enum))
	}
}

func TestSchemaJSON(t *testing.T) {
	out, err := SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if decoded["title"] != "Kara Game Configuration" {
		t.Errorf("title = %v", decoded["title"])
	}
}
