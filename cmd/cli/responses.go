package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/survey-platform/surveyctl/internal/common"
	"github.com/survey-platform/surveyctl/internal/models"
	"github.com/survey-platform/surveyctl/internal/router"
	"github.com/survey-platform/surveyctl/internal/survey"
)

var responsesCmd = &cobra.Command{
	Use:   "responses",
	Short: "Read the responses collected by a survey",
}

var responsesListCmd = &cobra.Command{
	Use:         "list <survey-id>",
	Short:       "List individual responses",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationRoute: string(router.SurveyResponses)},
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, cleanup := common.WithInterrupt(context.Background())
		defer cleanup()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		s, err := app.api.Surveys.Get(ctx, id)
		if err != nil {
			return err
		}

		responses, err := app.api.Responses.List(ctx, id)
		if err != nil {
			return err
		}

		fmt.Println(surveyTitleStyle.Render(s.Title) + " " +
			mutedStyle.Render(fmt.Sprintf("%d responses", len(responses))))
		fmt.Println()

		for _, response := range responses {
			printResponse(s, response)
		}

		return nil
	},
}

var responsesSummaryCmd = &cobra.Command{
	Use:         "summary <survey-id>",
	Short:       "Show aggregated results",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationRoute: string(router.SurveyResponses)},
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, cleanup := common.WithInterrupt(context.Background())
		defer cleanup()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		analytics, err := app.api.Responses.Summary(ctx, id)
		if err != nil {
			return err
		}

		fmt.Print(renderAnalytics(analytics))
		return nil
	},
}

var responsesExportCmd = &cobra.Command{
	Use:         "export <survey-id>",
	Short:       "Export responses as CSV",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationRoute: string(router.SurveyResponses)},
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, cleanup := common.WithInterrupt(context.Background())
		defer cleanup()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		s, err := app.api.Surveys.Get(ctx, id)
		if err != nil {
			return err
		}

		responses, err := app.api.Responses.List(ctx, id)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if len(out) == 0 || out == "-" {
			return survey.WriteCSV(os.Stdout, s, responses)
		}

		file, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer file.Close()

		if err := survey.WriteCSV(file, s, responses); err != nil {
			return err
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Exported %d responses to %s", len(responses), out)))
		return nil
	},
}

var responsesWatchCmd = &cobra.Command{
	Use:         "watch <survey-id>",
	Short:       "Follow results live as responses arrive",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationRoute: string(router.SurveyResponses)},
	RunE: func(cmd *cobra.Command, args []string) error {

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		interval, _ := cmd.Flags().GetString("interval")
		refresh, err := common.ParseDuration(interval)
		if err != nil {
			return err
		}

		return watchResponses(id, refresh)
	},
}

func printResponse(s *models.Survey, response models.Response) {

	submitted := response.SubmittedAt.Local().Format(dateFormat)
	who := "anonymous"
	if response.UserID != nil {
		who = fmt.Sprintf("user #%d", *response.UserID)
	}

	fmt.Println(headerStyle.Render(submitted) + " " + mutedStyle.Render(who))

	for _, answer := range response.Answers {
		text := fmt.Sprintf("question #%d", answer.QuestionID)
		if q, ok := s.GetQuestion(answer.QuestionID); ok {
			text = q.Text
		}
		fmt.Println(questionStyle.Render(fmt.Sprintf("%s: %s", mutedStyle.Render(common.Truncate(text, 40)), answer.String())))
	}
	fmt.Println()
}

func renderAnalytics(analytics *models.SurveyAnalytics) string {

	var content strings.Builder

	content.WriteString(surveyTitleStyle.Render(analytics.SurveyTitle))
	content.WriteString(" ")
	content.WriteString(mutedStyle.Render(fmt.Sprintf("%d responses", analytics.TotalResponses)))
	content.WriteString("\n\n")

	for _, qa := range analytics.QuestionAnalytics {
		content.WriteString(headerStyle.Render(qa.QuestionText))
		content.WriteString("\n")

		for _, option := range qa.OptionsSummary {
			content.WriteString(fmt.Sprintf("  %-24s %s %5.1f%% (%d)\n",
				common.Truncate(option.OptionText, 24),
				renderBar(option.Percentage, 20),
				option.Percentage,
				option.Count))
		}

		for _, text := range qa.TextResponses {
			content.WriteString(questionStyle.Render("“" + common.Truncate(text.Response, 70) + "”"))
			content.WriteString("\n")
		}

		if len(qa.OptionsSummary) == 0 && len(qa.TextResponses) == 0 {
			content.WriteString(mutedStyle.Render("  No answers yet"))
			content.WriteString("\n")
		}

		content.WriteString("\n")
	}

	return content.String()
}

func init() {
	rootCmd.AddCommand(responsesCmd)
	responsesCmd.AddCommand(responsesListCmd)
	responsesCmd.AddCommand(responsesSummaryCmd)
	responsesCmd.AddCommand(responsesExportCmd)
	responsesCmd.AddCommand(responsesWatchCmd)

	responsesExportCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	responsesWatchCmd.Flags().String("interval", "5s", "Refresh interval (Go or ISO 8601 duration)")
}
