package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	skillsrender "github.com/intelliview/intelliview-cli/internal/adapters/render/skills"
)

func newSkillsCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "skills",
		Short: "Show aggregated feedback ratings across your sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := app.sessions.Skills(cmd.Context(), app.subjectID(cmd.Context()))
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), skillsrender.Render(report))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")

	return cmd
}
