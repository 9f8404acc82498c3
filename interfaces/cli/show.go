package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/kara-go/application"
	"github.com/felixgeelhaar/kara-go/domain/world"
	"github.com/felixgeelhaar/kara-go/interfaces/render"
)

// newShowCmd creates the show command.
func (a *App) newShowCmd() *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "show [world]",
		Short: "Print a world with Kara at her start",
		Long: `Print a single frame of a world file. Without a file the empty
walled world is shown.

Examples:
  kara show worlds/forest.txt
  kara show worlds/forest.txt --style emoji`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := a.openGame(cmd, args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, render.Frame(game, render.ParseStyle(style)))
			return err
		},
	}

	cmd.Flags().StringVar(&style, "style", "ascii", "Frame style: ascii or emoji")

	return cmd
}

// openGame loads the world named by args, or the empty world.
func (a *App) openGame(cmd *cobra.Command, args []string, opts ...application.Option) (*application.Game, error) {
	if len(args) == 0 {
		return application.FromSpec(world.EmptyWorldSpec, opts...)
	}

	grid, err := loadWorldFile(cmd.Context(), args[0])
	if err != nil {
		return nil, err
	}
	game, err := application.FromGrid(grid, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid world: %w", err)
	}
	return game, nil
}
