package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations, optionally loading a seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seedPath, _ := cmd.Flags().GetString("seed")

			store, err := prepareStore(app.Ctx, app.Cfg.Backend, seedPath, app.Logger)
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Fprintln(app.Out, "\n✓ Migrations applied")
			if seedPath != "" {
				fmt.Fprintf(app.Out, "✓ Seed loaded from %s\n", seedPath)
			}
			return nil
		},
	}

	cmd.Flags().String("seed", "", "YAML seed file with cycles, categories, volunteers and tokens")

	return cmd
}
