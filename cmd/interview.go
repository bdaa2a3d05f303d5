package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/intelliview/intelliview-cli/internal/application"
	"github.com/intelliview/intelliview-cli/internal/domain"
	"github.com/intelliview/intelliview-cli/internal/ports"
)

func newInterviewCmd(app *app) *cobra.Command {
	var (
		category   string
		difficulty string
		feedback   bool
	)

	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Run an AI interview session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInterview(cmd, app, domain.Category(category), domain.Difficulty(difficulty), feedback)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", fmt.Sprintf("Interview category %v", domain.Categories()))
	cmd.Flags().StringVar(&difficulty, "difficulty", "", fmt.Sprintf("Interview difficulty %v", domain.Difficulties()))
	cmd.Flags().BoolVar(&feedback, "feedback", true, "Submit the transcript for feedback afterwards")

	return cmd
}

func runInterview(cmd *cobra.Command, app *app, category domain.Category, difficulty domain.Difficulty, feedback bool) error {
	interview := application.NewInterview(app.gateway, app.subjectID, app.clock, app.logger)

	if err := interview.Configure(category, difficulty, feedback); err != nil {
		return err
	}
	if !interview.Ready() {
		return fmt.Errorf("choose a category %v and difficulty %v before starting", domain.Categories(), domain.Difficulties())
	}

	out := cmd.OutOrStdout()

	err := runTurnSpinner(cmd.Context(), cmd.ErrOrStderr(), "Starting interview...", interview.Start)
	if err != nil {
		return err
	}
	printLatestReply(cmd, interview)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for interview.Phase() == application.PhaseActive {
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out, "\nInterview abandoned.")
			return scanner.Err()
		}

		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			continue
		}

		err := runTurnSpinner(cmd.Context(), cmd.ErrOrStderr(), "Waiting for the interviewer...", func(ctx context.Context) error {
			return interview.Send(ctx, answer)
		})
		if err != nil {
			return err
		}
		printLatestReply(cmd, interview)
	}

	if err := interview.RequestFeedback(cmd.Context()); err != nil {
		return err
	}

	sessionID, err := interview.Finish()
	if err != nil {
		return err
	}

	app.sessions.Archive(cmd.Context(), ports.Transcript{
		Session:  interview.Session(),
		Messages: interview.Messages(),
	})

	_, _ = fmt.Fprintf(out, "\nInterview complete. Review it with:\n  iv review --session %s\n", sessionID)
	return nil
}

func printLatestReply(cmd *cobra.Command, interview *application.Interview) {
	messages := interview.Messages()
	if len(messages) == 0 {
		return
	}

	latest := messages[len(messages)-1]
	if latest.Role == domain.RoleAssistant {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", latest.Content)
	}
}
