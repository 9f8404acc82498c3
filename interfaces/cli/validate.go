package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/kara-go/domain/agent"
	"github.com/felixgeelhaar/kara-go/domain/world"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	strict bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate a configuration or world file",
		Long: `Validate a configuration file (.yaml, .yml, .json) or a world file.

A configuration is loaded, checked and built, including its world and
routine. Any other file is parsed as a world and Kara's start is located.

Examples:
  kara validate kara.yaml
  kara validate worlds/forest.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isConfigPath(args[0]) {
				return a.validateConfig(cmd, args[0], opts)
			}
			return a.validateWorld(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail on unset environment variables")

	return cmd
}

func (a *App) validateConfig(cmd *cobra.Command, path string, opts *validateOptions) error {
	cfg, err := loadConfig(path, opts.strict)
	if err != nil {
		return err
	}

	s, err := a.newSession(cfg, false)
	if err != nil {
		return err
	}
	defer s.close(cmd.Context())

	grid, err := s.loadGrid(cmd.Context())
	if err != nil {
		return fmt.Errorf("invalid world: %w", err)
	}
	kara, err := agent.Extract(grid)
	if err != nil {
		return fmt.Errorf("invalid world: %w", err)
	}

	_, _ = fmt.Fprintf(a.stdout, "✓ Configuration is valid\n")
	_, _ = fmt.Fprintf(a.stdout, "  Name: %s\n", cfg.Name)
	_, _ = fmt.Fprintf(a.stdout, "  Routine: %s\n", s.build.RoutineName)
	_, _ = fmt.Fprintf(a.stdout, "  Delay: %s\n", s.build.Simulation.StepDelay)
	_, _ = fmt.Fprintf(a.stdout, "  Max actions: %d\n", s.build.Simulation.MaxActions)
	a.writeWorldSummary(grid, kara)
	return nil
}

func (a *App) validateWorld(cmd *cobra.Command, path string) error {
	grid, err := loadWorldFile(cmd.Context(), path)
	if err != nil {
		return err
	}
	kara, err := agent.Extract(grid)
	if err != nil {
		return fmt.Errorf("invalid world: %w", err)
	}

	_, _ = fmt.Fprintf(a.stdout, "✓ World is valid\n")
	a.writeWorldSummary(grid, kara)
	return nil
}

func (a *App) writeWorldSummary(grid *world.Grid, kara *agent.Kara) {
	_, _ = fmt.Fprintf(a.stdout, "  Size: %dx%d\n", grid.Width(), grid.Height())
	_, _ = fmt.Fprintf(a.stdout, "  Kara: %s\n", kara.Pose())
	_, _ = fmt.Fprintf(a.stdout, "  Trees: %d\n", grid.Count(world.KindTree))
	_, _ = fmt.Fprintf(a.stdout, "  Markers: %d\n", grid.Count(world.KindMarker))
	_, _ = fmt.Fprintf(a.stdout, "  Mushrooms: %d\n", grid.Count(world.KindGoal))
}
