package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "iv",
		Short:         "IntelliView CLI (iv): AI interview practice from the terminal",
		Long:          "iv (IntelliView CLI) signs you in against the identity provider, runs AI-driven interview sessions, and shows feedback, past sessions, and aggregated skills.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newInterviewCmd(app),
		newSessionsCmd(app),
		newReviewCmd(app),
		newSkillsCmd(app),
	)

	return rootCmd
}
