package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear local tokens and end the provider-side session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider, err := app.identityProvider()
			if err != nil {
				return err
			}

			// Local state is cleared before the navigation intent is
			// emitted, so an unvisited logout URL cannot leave stale
			// tokens behind.
			logoutURL, err := app.authService(provider).Logout(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Local tokens cleared. Open this URL to end the provider session:\n%s\n", logoutURL)
			return nil
		},
	}
}
