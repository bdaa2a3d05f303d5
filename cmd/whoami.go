package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity from the persisted token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, ok := app.authService(nil).CurrentIdentity(cmd.Context())
			if !ok {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "subject: %s\n", identity.SubjectID)
			if identity.Email != "" {
				_, _ = fmt.Fprintf(out, "email:   %s\n", identity.Email)
			}
			if identity.DisplayName != "" {
				_, _ = fmt.Fprintf(out, "name:    %s\n", identity.DisplayName)
			}
			_, _ = fmt.Fprintf(out, "expires: %s\n", identity.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
}
