package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/kara-go/application"
	"github.com/felixgeelhaar/kara-go/domain/agent"
	domainconfig "github.com/felixgeelhaar/kara-go/domain/config"
	"github.com/felixgeelhaar/kara-go/domain/simulation"
	"github.com/felixgeelhaar/kara-go/infrastructure/logging"
	"github.com/felixgeelhaar/kara-go/infrastructure/watch"
	"github.com/felixgeelhaar/kara-go/interfaces/render"
)

// runOptions holds options for the run command.
type runOptions struct {
	configPath string
	worldPath  string
	routine    string
	script     []string
	delay      time.Duration
	delaySet   bool
	maxActions int
	logLevel   string
	style      string
	watch      bool
	jsonOutput bool
	quiet      bool
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Capture a routine and replay it step by step",
		Long: `Run a routine against a world.

The routine is first executed against a hidden copy of the world and every
action is recorded. The recording is then replayed on the visible world,
one action per delay, printing a frame after each step.

Examples:
  # Find the mushroom in a world file
  kara run -w worlds/forest.txt

  # Use a config file and override the routine
  kara run -c kara.yaml --routine follow-wall

  # Replay a fixed script without delay, as JSON
  kara run -w world.txt --script move,move,turnLeft --delay 0 --json

  # Re-run whenever the world file changes
  kara run -w world.txt --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGame(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVarP(&opts.worldPath, "world", "w", "", "Path to world file (overrides config)")
	cmd.Flags().StringVarP(&opts.routine, "routine", "r", "", "Built-in routine name (overrides config)")
	cmd.Flags().StringSliceVar(&opts.script, "script", nil, "Fixed action list (overrides config)")
	cmd.Flags().DurationVar(&opts.delay, "delay", 0, "Delay before each replayed action (overrides config)")
	cmd.Flags().IntVar(&opts.maxActions, "max-actions", 0, "Maximum recorded actions (overrides config)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().StringVar(&opts.style, "style", "ascii", "Frame style: ascii or emoji")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-run when the world or config file changes")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the run as JSON")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print frames")

	return cmd
}

// resolveConfig loads the config file and applies flag overrides.
func resolveConfig(cmd *cobra.Command, opts *runOptions) (*domainconfig.GameConfig, error) {
	cfg, err := loadConfig(opts.configPath, false)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("world") {
		cfg.WorldFile = opts.worldPath
		cfg.World = ""
	}
	if flags.Changed("routine") {
		cfg.Routine = domainconfig.RoutineConfig{Name: opts.routine}
	}
	if flags.Changed("script") {
		cfg.Routine = domainconfig.RoutineConfig{Script: opts.script}
	}
	// ApplyDefaults treats a zero delay as unset; runOnce applies the flag.
	opts.delaySet = flags.Changed("delay")
	if opts.delaySet && opts.delay < 0 {
		return nil, fmt.Errorf("%w: delay must be non-negative", domainconfig.ErrValidationFailed)
	}
	if flags.Changed("max-actions") {
		cfg.Replay.MaxActions = opts.maxActions
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// runGame executes the run command.
func (a *App) runGame(cmd *cobra.Command, opts *runOptions) error {
	ctx := cmd.Context()

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	runErr := a.runOnce(ctx, cfg, opts)
	if !opts.watch {
		return runErr
	}
	if runErr != nil {
		fmt.Fprintf(a.stderr, "run failed: %v\n", runErr)
	}

	var paths []string
	if opts.configPath != "" {
		paths = append(paths, opts.configPath)
	}
	if cfg.WorldFile != "" {
		paths = append(paths, cfg.WorldFile)
	}
	if len(paths) == 0 {
		return errors.New("--watch needs a world file or a config file")
	}

	logger := logging.Wrap(logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: a.stderr,
	}))
	w, err := watch.New(paths, watch.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to watch files: %w", err)
	}
	defer w.Stop()
	w.Start(ctx)

	fmt.Fprintf(a.stderr, "watching %d file(s), press Ctrl+C to stop\n", len(paths))
	for ev := range w.Events() {
		fmt.Fprintf(a.stderr, "\n%s changed, re-running\n", ev.Path)

		cfg, err := resolveConfig(cmd, opts)
		if err != nil {
			fmt.Fprintf(a.stderr, "reload failed: %v\n", err)
			continue
		}
		if err := a.runOnce(ctx, cfg, opts); err != nil {
			fmt.Fprintf(a.stderr, "run failed: %v\n", err)
		}
	}
	return nil
}

// runOnce builds a game from cfg and executes its routine.
func (a *App) runOnce(ctx context.Context, cfg *domainconfig.GameConfig, opts *runOptions) error {
	s, err := a.newSession(cfg, opts.watch)
	if err != nil {
		return err
	}
	defer s.close(context.WithoutCancel(ctx))
	if opts.delaySet {
		s.build.Simulation.StepDelay = opts.delay
	}

	grid, err := s.loadGrid(ctx)
	if err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}

	style := render.ParseStyle(opts.style)
	frames := !opts.jsonOutput && !opts.quiet

	var game *application.Game
	observer := func(step int, act agent.Action) {
		if frames {
			fmt.Fprintf(a.stdout, "step %d: %s\n%s\n\n", step+1, act, render.Frame(game, style))
		}
	}

	game, err = application.FromGrid(grid, s.gameOptions(application.WithStepObserver(observer))...)
	if err != nil {
		return fmt.Errorf("failed to place Kara: %w", err)
	}

	if frames {
		fmt.Fprintf(a.stdout, "%s\n\n", render.Frame(game, style))
	}

	run, execErr := game.Execute(ctx, s.build.RoutineName, s.build.Routine)
	if run == nil {
		return execErr
	}

	if opts.jsonOutput {
		if err := a.writeRunJSON(game, run); err != nil {
			return err
		}
	} else {
		a.writeRunSummary(game, run)
	}

	if s.build.TelemetryEnabled {
		a.writeMetrics(ctx, s)
	}

	if execErr != nil {
		s.logger.Debug().Add(logging.ErrorField(execErr)).Msg("run returned an error")
		return fmt.Errorf("run failed: %w", execErr)
	}
	return nil
}

func (a *App) writeRunJSON(game *application.Game, run *simulation.Run) error {
	snap := game.Snapshot()
	output := map[string]any{
		"run":        run,
		"world":      snap.Grid.Encode(),
		"pose":       snap.Pose,
		"consistent": run.Consistent(snap.Grid, snap.Pose),
		"duration":   run.Duration().String(),
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func (a *App) writeRunSummary(game *application.Game, run *simulation.Run) {
	pose := game.Snapshot().Pose

	_, _ = fmt.Fprintf(a.stdout, "Run %s\n", run.Phase)
	_, _ = fmt.Fprintf(a.stdout, "  Run ID: %s\n", run.ID)
	_, _ = fmt.Fprintf(a.stdout, "  Routine: %s\n", run.Routine)
	_, _ = fmt.Fprintf(a.stdout, "  Actions: %s\n", run.Actions)
	_, _ = fmt.Fprintf(a.stdout, "  Replayed: %d/%d\n", run.Replayed, run.Actions.Len())
	_, _ = fmt.Fprintf(a.stdout, "  Kara: %s\n", pose)
	_, _ = fmt.Fprintf(a.stdout, "  Duration: %s\n", run.Duration().Round(time.Millisecond))
	if run.CaptureError != "" {
		_, _ = fmt.Fprintf(a.stdout, "  Routine error: %s\n", run.CaptureError)
	}
	if run.Error != "" {
		_, _ = fmt.Fprintf(a.stdout, "  Error: %s\n", run.Error)
	}
}

func (a *App) writeMetrics(ctx context.Context, s *session) {
	summary, err := s.obs.Summary(ctx)
	if err != nil {
		s.logger.Warn().Add(logging.ErrorField(err)).Msg("could not collect metrics")
		return
	}
	if len(summary) == 0 {
		return
	}

	_, _ = fmt.Fprintf(a.stderr, "Metrics:\n")
	for _, m := range summary {
		_, _ = fmt.Fprintf(a.stderr, "  %-24s %10.0f %s (%d)\n", m.Name, m.Value, m.Unit, m.Count)
	}
}
