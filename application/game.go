// Package application provides the game orchestrator: it captures a
// routine's actions against a private copy of the world and replays them,
// one delayed step at a time, against the live world.
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/felixgeelhaar/kara-go/domain/agent"
	"github.com/felixgeelhaar/kara-go/domain/routine"
	"github.com/felixgeelhaar/kara-go/domain/simulation"
	"github.com/felixgeelhaar/kara-go/domain/world"
	"github.com/felixgeelhaar/kara-go/infrastructure/logging"
	"github.com/felixgeelhaar/kara-go/infrastructure/observability"
	"github.com/felixgeelhaar/kara-go/infrastructure/statemachine"
)

// Game owns the live world and Kara. Capture reads a clone; replay and
// manual keys mutate the live world under the write lock, one action at a
// time, so renderers can read between steps.
type Game struct {
	mu      sync.RWMutex
	grid    *world.Grid
	kara    *agent.Kara
	running bool
	last    *simulation.Run

	config Config
	log    *logging.Logger
}

// FromSpec decodes spec and extracts Kara from it. An empty spec yields
// the walled 9×9 world.
func FromSpec(spec string, opts ...Option) (*Game, error) {
	if strings.TrimSpace(spec) == "" {
		spec = world.EmptyWorldSpec
	}
	grid, err := world.ParseSpec(spec)
	if err != nil {
		return nil, err
	}
	return FromGrid(grid, opts...)
}

// FromGrid extracts Kara from grid. The game takes ownership of grid.
func FromGrid(grid *world.Grid, opts ...Option) (*Game, error) {
	kara, err := agent.Extract(grid)
	if err != nil {
		return nil, err
	}
	return New(kara, opts...), nil
}

// New creates a game around an already placed Kara.
func New(kara *agent.Kara, opts ...Option) *Game {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	log := config.Logger
	if log == nil {
		log = logging.Wrap(nil)
	}

	return &Game{
		grid:   kara.Grid(),
		kara:   kara,
		config: config,
		log:    log.With(logging.Component("game")),
	}
}

// Config returns the game configuration.
func (g *Game) Config() Config {
	return g.config
}

// LastRun returns the most recent run, or nil.
func (g *Game) LastRun() *simulation.Run {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.last
}

// Running reports whether a run is active.
func (g *Game) Running() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}

// Execute captures fn against a copy of the world, then replays the
// captured actions against the live world with the configured delay.
//
// A log overflow fails the run without replay. Any other routine failure
// is logged and the recorded prefix is replayed; an illegal action then
// fails again on the live world and that error is returned.
func (g *Game) Execute(ctx context.Context, name string, fn routine.Routine) (_ *simulation.Run, err error) {
	if fn == nil {
		return nil, ErrNilRoutine
	}

	run := simulation.NewRun(g.config.IDGenerator(), name)
	if err := g.begin(run); err != nil {
		return nil, err
	}
	defer g.end()

	ctx, span := observability.StartSpan(ctx, g.config.Tracer, "kara.run",
		observability.AttrRunID.String(run.ID),
		observability.AttrRoutine.String(name),
	)
	defer func() {
		span.SetAttributes(observability.AttrPhase.String(string(run.Phase)))
		observability.EndSpan(span, err)
	}()

	log := g.log.With(logging.RunID(run.ID), logging.Routine(name))
	metrics := g.config.Metrics

	interp, err := statemachine.NewInterpreter(run, func(_ *simulation.Run, from, to simulation.Phase, reason string) {
		metrics.RecordPhaseTransition(ctx, string(from), string(to))
		span.AddEvent("phase " + string(to))
		log.Debug().
			Add(logging.FromPhase(from)).
			Add(logging.ToPhase(to)).
			Add(logging.Str("reason", reason)).
			Msg("phase transition")
	})
	if err != nil {
		return nil, err
	}
	defer interp.Stop()

	metrics.IncrementActiveRuns(ctx)
	defer metrics.DecrementActiveRuns(ctx)
	defer func() {
		metrics.RecordRunDuration(ctx, run.Duration(), string(run.Phase), run.Phase == simulation.PhaseDone)
	}()

	log.Info().Msg("run started")

	if err := interp.Transition(simulation.PhaseCapturing, "capture"); err != nil {
		return run, err
	}

	if err := g.capture(ctx, fn, run, log); err != nil {
		return run, g.fail(ctx, interp, log, "capture", err)
	}

	if err := interp.Transition(simulation.PhaseReplaying, "replay"); err != nil {
		return run, err
	}

	replayed, err := g.replay(ctx, run.Actions, log)
	run.Replayed = replayed
	if err != nil {
		return run, g.fail(ctx, interp, log, "replay", err)
	}

	if err := interp.Transition(simulation.PhaseDone, "replayed"); err != nil {
		return run, err
	}

	snap := g.Snapshot()
	if !run.Consistent(snap.Grid, snap.Pose) {
		log.Warn().Msg("replayed world differs from captured world")
	}

	log.Info().
		Add(logging.Count(replayed)).
		Add(logging.Position(snap.Pose.Position)).
		Add(logging.Facing(snap.Pose.Facing)).
		Add(logging.Duration(run.Duration())).
		Msg("run completed")

	return run, nil
}

func (g *Game) begin(run *simulation.Run) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return ErrRunInProgress
	}
	g.running = true
	g.last = run
	return nil
}

func (g *Game) end() {
	g.mu.Lock()
	g.running = false
	g.mu.Unlock()
}

// capture runs fn against a recorder bound to a private clone. It returns
// an error only when the run must stop before replay.
func (g *Game) capture(ctx context.Context, fn routine.Routine, run *simulation.Run, log *logging.Logger) (err error) {
	_, span := observability.StartSpan(ctx, g.config.Tracer, "kara.capture")
	defer func() { observability.EndSpan(span, err) }()

	g.mu.RLock()
	clone := g.grid.Clone()
	shadow := g.kara.CloneOnto(clone)
	g.mu.RUnlock()

	recorder := simulation.NewRecorder(shadow, g.config.Simulation.MaxActions)
	routineErr := invoke(fn, recorder)
	if routineErr == nil {
		routineErr = recorder.Err()
	}

	actions := recorder.Actions()
	run.Capture(actions, clone, shadow.Pose())
	span.SetAttributes(observability.AttrActions.Int(actions.Len()))
	g.config.Metrics.RecordCapture(ctx, run.Routine, actions.Strings(), routineErr == nil)

	log.Debug().
		Add(logging.Count(actions.Len())).
		Add(logging.Str("actions", actions.String())).
		Msg("capture finished")

	switch {
	case routineErr == nil:
		return nil
	case errors.Is(routineErr, simulation.ErrLogOverflow):
		return routineErr
	default:
		run.SwallowCaptureError(routineErr)
		log.Warn().
			Add(logging.ErrorField(routineErr)).
			Add(logging.Count(actions.Len())).
			Msg("routine failed during capture, replaying recorded prefix")
		return nil
	}
}

// invoke calls fn and converts a panic into ErrRoutinePanic.
func invoke(fn routine.Routine, k agent.Controller) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRoutinePanic, r)
		}
	}()
	return fn(k)
}

func (g *Game) replay(ctx context.Context, actions simulation.Log, log *logging.Logger) (replayed int, err error) {
	ctx, span := observability.StartSpan(ctx, g.config.Tracer, "kara.replay")
	defer func() {
		span.SetAttributes(observability.AttrReplayed.Int(replayed))
		observability.EndSpan(span, err)
	}()

	stepper := simulation.NewStepper(ctx, &liveController{g: g}, g.config.Simulation.StepDelay)
	metrics := g.config.Metrics

	log.Debug().
		Add(logging.Count(actions.Len())).
		Add(logging.Duration(stepper.Delay())).
		Msg("replay started")

	return actions.Replay(ctx, stepper, func(step int, a agent.Action) {
		metrics.RecordReplayedAction(ctx, a.String())
		log.Trace().Add(logging.Step(step)).Add(logging.Action(a)).Msg("action replayed")
		if g.config.Observer != nil {
			g.config.Observer(step, a)
		}
	})
}

func (g *Game) fail(ctx context.Context, interp *statemachine.Interpreter, log *logging.Logger, stage string, err error) error {
	if ferr := interp.Fail(err); ferr != nil {
		log.Warn().Add(logging.ErrorField(ferr)).Msg("could not mark run failed")
		interp.Run().Fail(err)
	}
	g.config.Metrics.RecordError(ctx, stage, map[string]string{"error": err.Error()})
	log.Error().
		Add(logging.Str("stage", stage)).
		Add(logging.ErrorField(err)).
		Msg("run failed")
	return err
}

// Snapshot is a copy of the live world for renderers.
type Snapshot struct {
	Grid *world.Grid
	Pose agent.Pose
}

// Snapshot returns a copy of the live world and Kara's pose.
func (g *Game) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return Snapshot{Grid: g.grid.Clone(), Pose: g.kara.Pose()}
}

// liveController guards the live Kara with the game lock so that each
// replayed action is applied atomically with respect to readers.
type liveController struct {
	g *Game
}

func (c *liveController) sense(fn func(*agent.Kara) bool) bool {
	c.g.mu.RLock()
	defer c.g.mu.RUnlock()
	return fn(c.g.kara)
}

func (c *liveController) act(fn func(*agent.Kara) error) error {
	c.g.mu.Lock()
	defer c.g.mu.Unlock()
	return fn(c.g.kara)
}

func (c *liveController) IsTreeAhead() bool   { return c.sense((*agent.Kara).IsTreeAhead) }
func (c *liveController) IsTreeLeft() bool    { return c.sense((*agent.Kara).IsTreeLeft) }
func (c *liveController) IsTreeRight() bool   { return c.sense((*agent.Kara).IsTreeRight) }
func (c *liveController) IsGoalAhead() bool   { return c.sense((*agent.Kara).IsGoalAhead) }
func (c *liveController) IsOnMarker() bool    { return c.sense((*agent.Kara).IsOnMarker) }
func (c *liveController) Move() error         { return c.act((*agent.Kara).Move) }
func (c *liveController) TurnLeft() error     { return c.act((*agent.Kara).TurnLeft) }
func (c *liveController) TurnRight() error    { return c.act((*agent.Kara).TurnRight) }
func (c *liveController) PlaceMarker() error  { return c.act((*agent.Kara).PlaceMarker) }
func (c *liveController) RemoveMarker() error { return c.act((*agent.Kara).RemoveMarker) }
