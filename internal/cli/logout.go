package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"starcleaner/internal/config"
)

// newLogoutCommand removes the stored credential without starting the UI
func (a *App) newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored GitHub token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings()
			if err != nil {
				return err
			}

			store := config.NewStore(s.ConfigPath)
			if !store.Load().HasToken() {
				fmt.Fprintln(cmd.OutOrStdout(), "No token stored.")
				return nil
			}
			if err := store.ClearToken(); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out. The stored token was removed.")
			return nil
		},
	}
}
