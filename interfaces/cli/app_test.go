package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const mushroomWorld = `TTTTTT
T>__MT
TTTTTT`

const deadEndWorld = `TTTT
T>_T
TTTT`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr).WithInput(strings.NewReader(stdin))
	err := app.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func TestApp_Version(t *testing.T) {
	out, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "kara-go version "+Version) {
		t.Errorf("version output missing version, got: %s", out)
	}
}

func TestApp_Help(t *testing.T) {
	out, _, err := execute(t, "", "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	for _, want := range []string{"lady beetle", "run", "validate", "play", "show", "routines", "schema"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q, got: %s", want, out)
		}
	}
}

func TestApp_Routines(t *testing.T) {
	out, _, err := execute(t, "", "routines")
	if err != nil {
		t.Fatalf("routines command failed: %v", err)
	}
	for _, want := range []string{"find-mushroom", "follow-wall", "mark-trail", "toggle-marker"} {
		if !strings.Contains(out, want) {
			t.Errorf("routines output missing %q, got: %s", want, out)
		}
	}
}

func TestApp_Show(t *testing.T) {
	path := writeFile(t, t.TempDir(), "world.txt", mushroomWorld)

	out, _, err := execute(t, "", "show", path)
	if err != nil {
		t.Fatalf("show command failed: %v", err)
	}
	if strings.TrimRight(out, "\n") != mushroomWorld {
		t.Errorf("show output = %q, want %q", out, mushroomWorld)
	}
}

func TestApp_ShowDefaultWorld(t *testing.T) {
	out, _, err := execute(t, "", "show")
	if err != nil {
		t.Fatalf("show command failed: %v", err)
	}
	if !strings.HasPrefix(out, "TTTTTTTTT\nT>") {
		t.Errorf("expected walled world with Kara at the first empty cell, got:\n%s", out)
	}
}

func TestApp_ShowMissingFile(t *testing.T) {
	_, _, err := execute(t, "", "show", filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing world file")
	}
}

func TestApp_Run(t *testing.T) {
	path := writeFile(t, t.TempDir(), "world.txt", mushroomWorld)

	out, _, err := execute(t, "", "run", "-w", path, "--delay", "0", "--quiet", "--log-level", "error")
	if err != nil {
		t.Fatalf("run command failed: %v", err)
	}

	for _, want := range []string{
		"Run done",
		"Routine: find-mushroom",
		"Actions: [move, move]",
		"Replayed: 2/2",
		"Kara: [3, 1] right",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q, got:\n%s", want, out)
		}
	}
}

func TestApp_RunFrames(t *testing.T) {
	path := writeFile(t, t.TempDir(), "world.txt", mushroomWorld)

	out, _, err := execute(t, "", "run", "-w", path, "--delay", "0", "--log-level", "error")
	if err != nil {
		t.Fatalf("run command failed: %v", err)
	}

	for _, want := range []string{"step 1: move", "T_>_MT", "step 2: move", "T__>MT"} {
		if !strings.Contains(out, want) {
			t.Errorf("frames missing %q, got:\n%s", want, out)
		}
	}
}

func TestApp_RunScriptJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "world.txt", mushroomWorld)

	out, _, err := execute(t, "", "run", "-w", path,
		"--script", "turnLeft,turnLeft",
		"--delay", "0", "--json", "--log-level", "error")
	if err != nil {
		t.Fatalf("run command failed: %v", err)
	}

	var result struct {
		Run struct {
			Phase    string   `json:"phase"`
			Routine  string   `json:"routine"`
			Actions  []string `json:"actions"`
			Replayed int      `json:"replayed"`
		} `json:"run"`
		Consistent bool `json:"consistent"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}

	if result.Run.Phase != "done" {
		t.Errorf("phase = %q, want done", result.Run.Phase)
	}
	if result.Run.Routine != "script" {
		t.Errorf("routine = %q, want script", result.Run.Routine)
	}
	if strings.Join(result.Run.Actions, ",") != "turnLeft,turnLeft" {
		t.Errorf("actions = %v", result.Run.Actions)
	}
	if result.Run.Replayed != 2 {
		t.Errorf("replayed = %d, want 2", result.Run.Replayed)
	}
	if !result.Consistent {
		t.Error("expected replayed world to match captured world")
	}
}

func TestApp_RunIllegalMove(t *testing.T) {
	path := writeFile(t, t.TempDir(), "world.txt", deadEndWorld)

	out, _, err := execute(t, "", "run", "-w", path,
		"--script", "move,move", "--delay", "0", "--quiet", "--log-level", "error")
	if err == nil {
		t.Fatal("expected run to fail on the second move")
	}

	for _, want := range []string{"Run failed", "Replayed: 1/2", "Routine error:", "Error:"} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q, got:\n%s", want, out)
		}
	}
}

func TestApp_RunConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "world.txt", mushroomWorld)
	configPath := writeFile(t, dir, "kara.yaml", `
name: test
world_file: world.txt
routine:
  name: toggle-marker
replay:
  delay: 1ms
logging:
  level: error
telemetry:
  enabled: true
`)

	out, errOut, err := execute(t, "", "run", "-c", configPath, "--quiet")
	if err != nil {
		t.Fatalf("run command failed: %v", err)
	}
	if !strings.Contains(out, "Actions: [placeMarker]") {
		t.Errorf("run output missing toggle-marker action, got:\n%s", out)
	}
	if !strings.Contains(errOut, "Metrics:") {
		t.Errorf("expected metrics summary on stderr, got:\n%s", errOut)
	}
}

func TestApp_RunRoutineOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "world.txt", mushroomWorld)

	out, _, err := execute(t, "", "run", "-w", path, "--routine", "toggle-marker",
		"--delay", "0", "--quiet", "--log-level", "error")
	if err != nil {
		t.Fatalf("run command failed: %v", err)
	}
	if !strings.Contains(out, "Routine: toggle-marker") {
		t.Errorf("expected overridden routine, got:\n%s", out)
	}
}

func TestApp_RunErrors(t *testing.T) {
	dir := t.TempDir()
	world := writeFile(t, dir, "world.txt", mushroomWorld)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown routine", []string{"run", "-w", world, "--routine", "dance"}},
		{"unknown action", []string{"run", "-w", world, "--script", "jump"}},
		{"negative delay", []string{"run", "-w", world, "--delay", "-1s"}},
		{"missing config", []string{"run", "-c", filepath.Join(dir, "missing.yaml")}},
		{"missing world", []string{"run", "-w", filepath.Join(dir, "missing.txt")}},
		{"watch without files", []string{"run", "--watch", "--delay", "0", "-q", "--max-actions", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--log-level", "error")
			if _, _, err := execute(t, "", args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestApp_ValidateWorld(t *testing.T) {
	path := writeFile(t, t.TempDir(), "world.txt", mushroomWorld)

	out, _, err := execute(t, "", "validate", path)
	if err != nil {
		t.Fatalf("validate command failed: %v", err)
	}
	for _, want := range []string{"World is valid", "Size: 6x3", "Kara: [1, 1] right", "Trees: 14", "Mushrooms: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("validate output missing %q, got:\n%s", want, out)
		}
	}
}

func TestApp_ValidateConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "world.txt", mushroomWorld)
	configPath := writeFile(t, dir, "kara.yaml", `
world_file: world.txt
routine:
  script: [move, turnLeft]
logging:
  level: error
`)

	out, _, err := execute(t, "", "validate", configPath)
	if err != nil {
		t.Fatalf("validate command failed: %v", err)
	}
	for _, want := range []string{"Configuration is valid", "Routine: script", "Max actions: 50", "Size: 6x3"} {
		if !strings.Contains(out, want) {
			t.Errorf("validate output missing %q, got:\n%s", want, out)
		}
	}
}

func TestApp_ValidateInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"ragged world", "world.txt", "TTT\nT>\nTTT"},
		{"bad level", "kara.yaml", "logging:\n  level: loud\n"},
		{"bad script", "kara.json", `{"routine": {"script": ["fly"]}}`},
		{"missing world file", "other.yaml", "world_file: nowhere.txt\nlogging:\n  level: error\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			if _, _, err := execute(t, "", "validate", path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApp_Play(t *testing.T) {
	path := writeFile(t, t.TempDir(), "world.txt", mushroomWorld)

	out, _, err := execute(t, "up left x\nq\nright\n", "play", path)
	if err != nil {
		t.Fatalf("play command failed: %v", err)
	}

	frames := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if !strings.Contains(out, "! unknown key") {
		t.Errorf("expected unknown key message, got:\n%s", out)
	}
	if !strings.Contains(out, "T_^_MT") {
		t.Errorf("expected Kara facing up at [2, 1], got:\n%s", out)
	}
	if got := frames[len(frames)-2]; got != "T_^_MT" {
		t.Errorf("last frame row = %q, input after q should be ignored", got)
	}
}

func TestApp_PlayBlocked(t *testing.T) {
	path := writeFile(t, t.TempDir(), "world.txt", deadEndWorld)

	out, _, err := execute(t, "w w\n", "play", path)
	if err != nil {
		t.Fatalf("play command failed: %v", err)
	}
	if !strings.Contains(out, "! ") {
		t.Errorf("expected blocked move message, got:\n%s", out)
	}
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), "TTTT\nT_>T\nTTTT") {
		t.Errorf("expected Kara to stop before the tree, got:\n%s", out)
	}
}

func TestApp_Schema(t *testing.T) {
	out, _, err := execute(t, "", "schema")
	if err != nil {
		t.Fatalf("schema command failed: %v", err)
	}

	var schema map[string]any
	if err := json.Unmarshal([]byte(out), &schema); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if _, ok := schema["properties"]; !ok {
		t.Error("schema missing properties")
	}
}

func TestApp_SchemaToFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "kara.schema.json")

	_, errOut, err := execute(t, "", "schema", "-o", output)
	if err != nil {
		t.Fatalf("schema command failed: %v", err)
	}
	if !strings.Contains(errOut, "Schema written") {
		t.Errorf("expected confirmation, got: %s", errOut)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read schema file: %v", err)
	}
	if !json.Valid(data) {
		t.Error("schema file is not valid JSON")
	}
}
