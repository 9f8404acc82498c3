package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/kara-go/domain/routine"
)

// newRoutinesCmd creates the routines command.
func (a *App) newRoutinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routines",
		Short: "List built-in routines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := routine.Builtins().List()
			_, _ = fmt.Fprintf(a.stdout, "Built-in routines (%d):\n", len(defs))
			for _, def := range defs {
				_, _ = fmt.Fprintf(a.stdout, "  %-16s %s\n", def.Name, def.Description)
			}
			return nil
		},
	}
}
