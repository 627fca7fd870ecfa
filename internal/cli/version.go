package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "starcleaner %s\n", a.Version)
			if a.Commit != "" {
				fmt.Fprintf(w, "Git SHA: %s\n", a.Commit)
			}
			return nil
		},
	}
}
