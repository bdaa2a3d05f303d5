package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	sessionsrender "github.com/intelliview/intelliview-cli/internal/adapters/render/sessions"
)

func newSessionsCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List past interview sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := app.sessions.List(cmd.Context(), app.subjectID(cmd.Context()))
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), sessionsrender.Render(rows))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")

	return cmd
}
