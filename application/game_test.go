package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/kara-go/domain/agent"
	"github.com/felixgeelhaar/kara-go/domain/routine"
	"github.com/felixgeelhaar/kara-go/domain/simulation"
	"github.com/felixgeelhaar/kara-go/domain/world"
	"github.com/felixgeelhaar/kara-go/infrastructure/logging"
)

const corridorSpec = `TTTTT
T   T
T>  T
TTTTT`

const mushroomSpec = `TTTTTT
T>  MT
TTTTTT`

// fakeMetrics counts recorder calls.
type fakeMetrics struct {
	mu          sync.Mutex
	transitions []string
	captures    int
	captureOK   bool
	replayed    []string
	manual      []string
	errors      []string
	durations   int
	active      int
}

func (m *fakeMetrics) RecordPhaseTransition(_ context.Context, from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, from+"->"+to)
}

func (m *fakeMetrics) RecordCapture(_ context.Context, _ string, _ []string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.captures++
	m.captureOK = success
}

func (m *fakeMetrics) RecordReplayedAction(_ context.Context, action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replayed = append(m.replayed, action)
}

func (m *fakeMetrics) RecordManualAction(_ context.Context, action string, _ bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manual = append(m.manual, action)
}

func (m *fakeMetrics) RecordError(_ context.Context, errorType string, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, errorType)
}

func (m *fakeMetrics) RecordRunDuration(context.Context, time.Duration, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations++
}

func (m *fakeMetrics) IncrementActiveRuns(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active++
}

func (m *fakeMetrics) DecrementActiveRuns(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active--
}

func quietLogger() Option {
	return WithLogger(logging.Wrap(logging.New(logging.Config{
		Level:  "error",
		Format: "json",
		Output: io.Discard,
	})))
}

func newGame(t *testing.T, spec string, opts ...Option) *Game {
	t.Helper()

	opts = append([]Option{quietLogger(), WithStepDelay(0)}, opts...)
	g, err := FromSpec(spec, opts...)
	if err != nil {
		t.Fatalf("FromSpec() error = %v", err)
	}
	return g
}

func TestFromSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    string
		wantErr error
		want    agent.Pose
	}{
		{
			name: "explicit start",
			spec: corridorSpec,
			want: agent.Pose{Position: world.At(1, 2), Facing: world.Right},
		},
		{
			name: "empty spec uses walled world",
			spec: "  \n",
			want: agent.Pose{Position: world.At(1, 1), Facing: world.Right},
		},
		{
			name:    "ragged spec",
			spec:    "TTT\nT",
			wantErr: world.ErrMalformedSpec,
		},
		{
			name:    "no start",
			spec:    "TT\nTT",
			wantErr: agent.ErrNoStartPosition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, err := FromSpec(tt.spec, quietLogger())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FromSpec() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromSpec() error = %v", err)
			}
			if got := g.Snapshot().Pose; got != tt.want {
				t.Errorf("pose = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGame_Execute_EndToEnd(t *testing.T) {
	t.Parallel()

	metrics := &fakeMetrics{}
	var observed []string
	g := newGame(t, corridorSpec,
		WithMetrics(metrics),
		WithStepObserver(func(step int, a agent.Action) {
			observed = append(observed, a.String())
		}),
	)

	run, err := g.Execute(context.Background(), "three-steps", routine.Repeat(3, routine.TurnOrMove))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if got := run.Actions.String(); got != "[move, move, turnLeft]" {
		t.Errorf("log = %s, want [move, move, turnLeft]", got)
	}
	if run.Phase != simulation.PhaseDone {
		t.Errorf("Phase = %s, want done", run.Phase)
	}
	if run.Replayed != 3 {
		t.Errorf("Replayed = %d, want 3", run.Replayed)
	}
	if run.StartTime.IsZero() || run.EndTime.IsZero() {
		t.Error("run timestamps should be set")
	}
	if !strings.HasPrefix(run.ID, "run-") {
		t.Errorf("ID = %s, want run- prefix", run.ID)
	}

	snap := g.Snapshot()
	want := agent.Pose{Position: world.At(3, 2), Facing: world.Up}
	if snap.Pose != want {
		t.Errorf("pose = %v, want %v", snap.Pose, want)
	}
	if !run.Consistent(snap.Grid, snap.Pose) {
		t.Error("replayed world should match captured world")
	}
	if strings.Join(observed, ",") != "move,move,turnLeft" {
		t.Errorf("observed = %v", observed)
	}
	if g.LastRun() != run {
		t.Error("LastRun() should return the executed run")
	}
	if g.Running() {
		t.Error("Running() should be false after Execute")
	}

	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	if got := strings.Join(metrics.transitions, " "); got != "idle->capturing capturing->replaying replaying->done" {
		t.Errorf("transitions = %s", got)
	}
	if metrics.captures != 1 || !metrics.captureOK {
		t.Errorf("captures = %d ok = %v", metrics.captures, metrics.captureOK)
	}
	if len(metrics.replayed) != 3 || metrics.durations != 1 || metrics.active != 0 {
		t.Errorf("replayed = %v durations = %d active = %d", metrics.replayed, metrics.durations, metrics.active)
	}
}

func TestGame_Execute_Deterministic(t *testing.T) {
	t.Parallel()

	a := newGame(t, mushroomSpec)
	b := newGame(t, mushroomSpec)

	runA, err := a.Execute(context.Background(), routine.FindMushroom, routine.FindMushroomRoutine)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	runB, err := b.Execute(context.Background(), routine.FindMushroom, routine.FindMushroomRoutine)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if runA.Actions.String() != runB.Actions.String() {
		t.Errorf("logs differ: %s vs %s", runA.Actions, runB.Actions)
	}
	if runA.Actions.String() != "[move, move]" {
		t.Errorf("log = %s, want [move, move]", runA.Actions)
	}
	if !a.Snapshot().Grid.Equal(b.Snapshot().Grid) {
		t.Error("final grids differ")
	}
}

func TestGame_Execute_Overflow(t *testing.T) {
	t.Parallel()

	metrics := &fakeMetrics{}
	g := newGame(t, world.EmptyWorldSpec, WithMaxActions(20), WithMetrics(metrics))
	before := g.Snapshot()

	run, err := g.Execute(context.Background(), routine.FindMushroom, routine.FindMushroomRoutine)
	if !errors.Is(err, simulation.ErrLogOverflow) {
		t.Fatalf("Execute() error = %v, want ErrLogOverflow", err)
	}
	if run.Phase != simulation.PhaseFailed {
		t.Errorf("Phase = %s, want failed", run.Phase)
	}
	if run.Actions.Len() != 20 {
		t.Errorf("log length = %d, want 20", run.Actions.Len())
	}
	if run.Replayed != 0 {
		t.Errorf("Replayed = %d, want 0", run.Replayed)
	}
	if run.Error == "" {
		t.Error("Error should be recorded")
	}

	after := g.Snapshot()
	if after.Pose != before.Pose || !after.Grid.Equal(before.Grid) {
		t.Error("live world must not change when capture overflows")
	}

	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	if len(metrics.errors) != 1 || metrics.errors[0] != "capture" {
		t.Errorf("errors = %v, want [capture]", metrics.errors)
	}
}

func TestGame_Execute_InvalidMoveResurfacesOnReplay(t *testing.T) {
	t.Parallel()

	g := newGame(t, "TTTT\nT>_T\nTTTT")
	walk := func(k agent.Controller) error {
		if err := k.Move(); err != nil {
			return err
		}
		return k.Move()
	}

	run, err := g.Execute(context.Background(), "walk", walk)
	if !errors.Is(err, agent.ErrInvalidMove) {
		t.Fatalf("Execute() error = %v, want ErrInvalidMove", err)
	}
	if run.CaptureError == "" {
		t.Error("capture error should be recorded")
	}
	if run.Actions.String() != "[move, move]" {
		t.Errorf("log = %s, want the failed move recorded", run.Actions)
	}
	if run.Replayed != 1 {
		t.Errorf("Replayed = %d, want 1", run.Replayed)
	}
	if run.Phase != simulation.PhaseFailed {
		t.Errorf("Phase = %s, want failed", run.Phase)
	}
	if got := g.Snapshot().Pose.Position; got != world.At(2, 1) {
		t.Errorf("position = %v, want (2,1)", got)
	}
}

func TestGame_Execute_RoutinePanic(t *testing.T) {
	t.Parallel()

	g := newGame(t, corridorSpec)
	boom := func(k agent.Controller) error {
		if err := k.Move(); err != nil {
			return err
		}
		panic("boom")
	}

	run, err := g.Execute(context.Background(), "boom", boom)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(run.CaptureError, ErrRoutinePanic.Error()) {
		t.Errorf("CaptureError = %q, want routine panic", run.CaptureError)
	}
	if run.Phase != simulation.PhaseDone || run.Replayed != 1 {
		t.Errorf("Phase = %s Replayed = %d", run.Phase, run.Replayed)
	}
}

func TestGame_Execute_NilRoutine(t *testing.T) {
	t.Parallel()

	g := newGame(t, corridorSpec)
	if _, err := g.Execute(context.Background(), "nil", nil); !errors.Is(err, ErrNilRoutine) {
		t.Errorf("Execute() error = %v, want ErrNilRoutine", err)
	}
	if g.LastRun() != nil {
		t.Error("LastRun() should stay nil")
	}
}

func TestGame_Execute_Cancel(t *testing.T) {
	t.Parallel()

	g := newGame(t, corridorSpec, WithStepDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	run, err := g.Execute(ctx, "three-steps", routine.Repeat(3, routine.TurnOrMove))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
	if run.Phase != simulation.PhaseFailed || run.Replayed != 0 {
		t.Errorf("Phase = %s Replayed = %d", run.Phase, run.Replayed)
	}
	if got := g.Snapshot().Pose.Position; got != world.At(1, 2) {
		t.Errorf("position = %v, want start", got)
	}
}

func TestGame_RunInProgress(t *testing.T) {
	t.Parallel()

	g := newGame(t, corridorSpec, WithStepDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	var once sync.Once
	slow := func(k agent.Controller) error {
		once.Do(func() { close(started) })
		return k.Move()
	}

	done := make(chan error, 1)
	go func() {
		_, err := g.Execute(ctx, "slow", slow)
		done <- err
	}()
	<-started

	if !g.Running() {
		t.Error("Running() should be true during a run")
	}
	if _, err := g.Execute(context.Background(), "second", slow); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("second Execute() error = %v, want ErrRunInProgress", err)
	}
	if _, err := g.HandleKey(context.Background(), KeyUp); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("HandleKey() error = %v, want ErrRunInProgress", err)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("first Execute() error = %v, want context.Canceled", err)
	}
}

func TestGame_HandleKey(t *testing.T) {
	t.Parallel()

	metrics := &fakeMetrics{}
	g := newGame(t, "", WithMetrics(metrics))
	ctx := context.Background()

	steps := []struct {
		key     Key
		want    agent.Action
		wantErr error
	}{
		{key: KeyUp, want: agent.ActionMove},
		{key: KeyDown, want: agent.ActionPlaceMarker},
		{key: KeyDown, want: agent.ActionRemoveMarker},
		{key: KeyLeft, want: agent.ActionTurnLeft},
		{key: KeyUp, want: agent.ActionMove, wantErr: agent.ErrInvalidMove},
		{key: KeyRight, want: agent.ActionTurnRight},
	}

	for i, step := range steps {
		got, err := g.HandleKey(ctx, step.key)
		if got != step.want {
			t.Errorf("step %d: action = %s, want %s", i, got, step.want)
		}
		if step.wantErr != nil {
			if !errors.Is(err, step.wantErr) {
				t.Errorf("step %d: error = %v, want %v", i, err, step.wantErr)
			}
		} else if err != nil {
			t.Errorf("step %d: error = %v", i, err)
		}
	}

	snap := g.Snapshot()
	want := agent.Pose{Position: world.At(2, 1), Facing: world.Right}
	if snap.Pose != want {
		t.Errorf("pose = %v, want %v", snap.Pose, want)
	}
	if snap.Grid.Count(world.KindMarker) != 0 {
		t.Error("toggled marker should be gone")
	}

	if _, err := g.HandleKey(ctx, Key(42)); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("HandleKey(42) error = %v, want ErrUnknownKey", err)
	}

	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	if len(metrics.manual) != len(steps) {
		t.Errorf("manual actions = %d, want %d", len(metrics.manual), len(steps))
	}
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Key
		wantErr bool
	}{
		{in: "w", want: KeyUp},
		{in: "UP", want: KeyUp},
		{in: "a", want: KeyLeft},
		{in: "left", want: KeyLeft},
		{in: "d", want: KeyRight},
		{in: "ArrowRight", want: KeyRight},
		{in: "s", want: KeyDown},
		{in: " down ", want: KeyDown},
		{in: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownKey) {
					t.Errorf("ParseKey(%q) error = %v, want ErrUnknownKey", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseKey(%q) = %s, %v; want %s", tt.in, got, err, tt.want)
			}
		})
	}

	if KeyDown.String() != "down" || Key(9).String() != "key(9)" {
		t.Error("Key.String() mismatch")
	}
}

// recordingCanvas records draw calls in order.
type recordingCanvas struct {
	cells  int
	calls  []string
	agent  world.Coord
	facing world.Direction
}

func (c *recordingCanvas) DrawCell(_ world.Coord, _ world.Cell, _ int) {
	c.cells++
	c.calls = append(c.calls, "cell")
}

func (c *recordingCanvas) DrawAgent(at world.Coord, facing world.Direction, _ int) {
	c.agent = at
	c.facing = facing
	c.calls = append(c.calls, "agent")
}

func TestGame_Draw(t *testing.T) {
	t.Parallel()

	g := newGame(t, corridorSpec)
	canvas := &recordingCanvas{}
	g.Draw(canvas, 32)

	if canvas.cells != 20 {
		t.Errorf("cells drawn = %d, want 20", canvas.cells)
	}
	if last := canvas.calls[len(canvas.calls)-1]; last != "agent" {
		t.Errorf("last call = %s, want agent", last)
	}
	if canvas.agent != world.At(1, 2) || canvas.facing != world.Right {
		t.Errorf("agent drawn at %v facing %v", canvas.agent, canvas.facing)
	}
}

func TestGame_SnapshotIsIndependent(t *testing.T) {
	t.Parallel()

	g := newGame(t, corridorSpec)
	snap := g.Snapshot()
	if err := snap.Grid.Set(world.At(2, 1), world.Tree); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if g.Snapshot().Grid.Count(world.KindTree) == snap.Grid.Count(world.KindTree) {
		t.Error("mutating a snapshot must not affect the live world")
	}
}

func TestGame_Execute_CustomRunID(t *testing.T) {
	t.Parallel()

	g := newGame(t, mushroomSpec, WithIDGenerator(func() string { return "run-fixed" }))

	run, err := g.Execute(context.Background(), routine.FindMushroom, routine.FindMushroomRoutine)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if run.ID != "run-fixed" {
		t.Errorf("ID = %s, want run-fixed", run.ID)
	}
}

func TestGame_Execute_LogsReplayStart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	g := newGame(t, mushroomSpec,
		WithStepDelay(2*time.Millisecond),
		WithLogger(logging.Wrap(logging.New(logging.Config{Level: "debug", Format: "json", Output: &buf}))),
	)

	if _, err := g.Execute(context.Background(), routine.FindMushroom, routine.FindMushroomRoutine); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if !strings.Contains(line, "replay started") {
			continue
		}
		var event map[string]any
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		if event["duration_ms"] != float64(2) {
			t.Errorf("duration_ms = %v, want 2", event["duration_ms"])
		}
		if event["count"] != float64(2) {
			t.Errorf("count = %v, want 2", event["count"])
		}
		return
	}
	t.Errorf("no replay start event in:\n%s", buf.String())
}

func TestGame_Execute_ReplaysMarkers(t *testing.T) {
	t.Parallel()

	g := newGame(t, mushroomSpec)
	script := routine.Script([]agent.Action{
		agent.ActionPlaceMarker,
		agent.ActionMove,
		agent.ActionPlaceMarker,
		agent.ActionRemoveMarker,
	})

	run, err := g.Execute(context.Background(), "markers", script)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if run.Replayed != 4 {
		t.Errorf("Replayed = %d, want 4", run.Replayed)
	}

	snap := g.Snapshot()
	if got := snap.Grid.Count(world.KindMarker); got != 1 {
		t.Errorf("markers = %d, want 1", got)
	}
	if cell, _ := snap.Grid.At(world.At(1, 1)); !cell.Is(world.KindMarker) {
		t.Errorf("[1, 1] = %s, want marker", cell.Kind())
	}
	if !run.Consistent(snap.Grid, snap.Pose) {
		t.Error("replayed world should match captured world")
	}
}
