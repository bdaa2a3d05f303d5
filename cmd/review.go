package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/intelliview/intelliview-cli/internal/domain"
	"github.com/intelliview/intelliview-cli/internal/ports"
)

func newReviewCmd(app *app) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Show the transcript and feedback of a past session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			record, err := app.sessions.Review(cmd.Context(), sessionID)
			if err != nil {
				return err
			}

			return writeReview(cmd, record)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session identifier to review")

	return cmd
}

func writeReview(cmd *cobra.Command, record ports.ReviewRecord) error {
	out := cmd.OutOrStdout()

	for _, message := range record.Messages {
		speaker := "You"
		if message.Role == domain.RoleAssistant {
			speaker = "Interviewer"
		}
		_, _ = fmt.Fprintf(out, "%s: %s\n\n", speaker, message.Content)
	}

	if record.Feedback == nil {
		return nil
	}

	feedback := record.Feedback
	_, _ = fmt.Fprintln(out, "--- Feedback ---")
	if feedback.Summary != "" {
		_, _ = fmt.Fprintln(out, feedback.Summary)
	}
	criteria := make([]string, 0, len(feedback.Ratings))
	for criterion := range feedback.Ratings {
		criteria = append(criteria, criterion)
	}
	sort.Strings(criteria)
	for _, criterion := range criteria {
		_, _ = fmt.Fprintf(out, "%s: %d/10\n", criterion, feedback.Ratings[criterion])
	}
	writeFeedbackList(out, "Strengths", feedback.Strengths)
	writeFeedbackList(out, "Weaknesses", feedback.Weaknesses)
	writeFeedbackList(out, "Suggestions", feedback.Suggestions)
	return nil
}

func writeFeedbackList(out io.Writer, heading string, items []string) {
	if len(items) == 0 {
		return
	}

	_, _ = fmt.Fprintf(out, "%s:\n", heading)
	for _, item := range items {
		_, _ = fmt.Fprintf(out, "  - %s\n", strings.TrimSpace(item))
	}
}
