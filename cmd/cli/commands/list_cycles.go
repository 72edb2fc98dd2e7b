package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListCyclesCmd creates the listCycles command
func ListCyclesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listCycles",
		Short: "List the training cycles offered by the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cycles, err := app.Client.GetCycles(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list cycles: %w", err)
			}

			fmt.Fprintf(app.Out, "\nFound %d cycles:\n\n", len(cycles))
			for _, c := range cycles {
				fmt.Fprintf(app.Out, "- %s\n", c.FullCycle())
			}
			return nil
		},
	}
}
