package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/kara-go/application"
	"github.com/felixgeelhaar/kara-go/infrastructure/logging"
	"github.com/felixgeelhaar/kara-go/interfaces/render"
)

// playOptions holds options for the play command.
type playOptions struct {
	style    string
	logLevel string
}

// newPlayCmd creates the play command.
func (a *App) newPlayCmd() *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play [world]",
		Short: "Steer Kara by hand",
		Long: `Steer Kara with direction keys read from standard input.

Each line may hold several keys separated by spaces:
  up, w      move forward
  left, a    turn left
  right, d   turn right
  down, s    place or pick up a clover leaf
  q          quit

A frame is printed after every line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.style, "style", "ascii", "Frame style: ascii or emoji")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "error", "Log level: trace, debug, info, warn, error")

	return cmd
}

func (a *App) play(cmd *cobra.Command, args []string, opts *playOptions) error {
	ctx := cmd.Context()

	logger := logging.Wrap(logging.New(logging.Config{
		Level:  opts.logLevel,
		Format: "console",
		Output: a.stderr,
	}))

	game, err := a.openGame(cmd, args, application.WithLogger(logger))
	if err != nil {
		return err
	}

	style := render.ParseStyle(opts.style)
	_, _ = fmt.Fprintln(a.stdout, render.Frame(game, style))

	scanner := bufio.NewScanner(a.stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		for _, token := range strings.Fields(scanner.Text()) {
			if token == "q" || token == "quit" {
				return nil
			}

			key, err := application.ParseKey(token)
			if err != nil {
				_, _ = fmt.Fprintf(a.stdout, "! %v\n", err)
				continue
			}
			if _, err := game.HandleKey(ctx, key); err != nil {
				if errors.Is(err, application.ErrRunInProgress) {
					return err
				}
				_, _ = fmt.Fprintf(a.stdout, "! %v\n", err)
			}
		}
		_, _ = fmt.Fprintln(a.stdout, render.Frame(game, style))
	}
	return scanner.Err()
}
