package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	infraconfig "github.com/felixgeelhaar/kara-go/infrastructure/config"
)

// newSchemaCmd creates the schema command.
func (a *App) newSchemaCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Export the configuration JSON Schema",
		Long: `Export the JSON Schema for kara configuration files, for editor
completion and validation.

Examples:
  kara schema
  kara schema -o kara.schema.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := infraconfig.SchemaJSON()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}

			if output == "" {
				_, err = fmt.Fprintln(a.stdout, schema)
				return err
			}

			if err := os.WriteFile(output, []byte(schema+"\n"), 0o644); err != nil {
				return fmt.Errorf("failed to write schema: %w", err)
			}
			_, _ = fmt.Fprintf(a.stderr, "Schema written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}
