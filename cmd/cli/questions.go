package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/survey-platform/surveyctl/internal/common"
	"github.com/survey-platform/surveyctl/internal/models"
	"github.com/survey-platform/surveyctl/internal/router"
	"github.com/survey-platform/surveyctl/internal/survey"
)

var questionsCmd = &cobra.Command{
	Use:     "questions",
	Aliases: []string{"question"},
	Short:   "Add, change and remove survey questions",
}

var questionsAddCmd = &cobra.Command{
	Use:         "add <survey-id>",
	Short:       "Add a question to a survey",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationRoute: string(router.EditSurvey)},
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, cleanup := common.WithInterrupt(context.Background())
		defer cleanup()

		surveyID, err := parseID(args[0])
		if err != nil {
			return err
		}

		s, err := app.api.Surveys.Get(ctx, surveyID)
		if err != nil {
			return err
		}

		q, err := questionFromFlags(cmd)
		if err != nil {
			return err
		}
		if q == nil {
			if q, err = promptQuestion(nil); err != nil {
				return err
			}
		}

		q.SurveyID = surveyID
		if q.OrderNum == 0 {
			q.OrderNum = nextOrderNum(s)
		}

		created, err := app.api.Surveys.AddQuestion(ctx, surveyID, *q)
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Question #%d added to survey #%d", created.ID, surveyID)))
		return nil
	},
}

var questionsUpdateCmd = &cobra.Command{
	Use:         "update <survey-id> <question-id>",
	Short:       "Change a question",
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationRoute: string(router.EditSurvey)},
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, cleanup := common.WithInterrupt(context.Background())
		defer cleanup()

		s, existing, err := lookupQuestion(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		q, err := questionFromFlags(cmd)
		if err != nil {
			return err
		}
		if q == nil {
			if q, err = promptQuestion(existing); err != nil {
				return err
			}
		}

		q.ID = &existing.ID
		q.SurveyID = s.ID
		if q.OrderNum == 0 {
			q.OrderNum = existing.OrderNum
		}

		updated, err := app.api.Surveys.UpdateQuestion(ctx, existing.ID, *q)
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Question #%d updated", updated.ID)))
		return nil
	},
}

var questionsDeleteCmd = &cobra.Command{
	Use:         "delete <survey-id> <question-id>",
	Short:       "Remove a question",
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationRoute: string(router.EditSurvey)},
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, cleanup := common.WithInterrupt(context.Background())
		defer cleanup()

		_, existing, err := lookupQuestion(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			confirmed, err := confirm(fmt.Sprintf("Delete question %q?", existing.Text), "")
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Println(infoStyle.Render("Nothing deleted"))
				return nil
			}
		}

		if err := app.api.Surveys.DeleteQuestion(ctx, existing.ID); err != nil {
			return err
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Question #%d deleted", existing.ID)))
		return nil
	},
}

func lookupQuestion(ctx context.Context, surveyArg string, questionArg string) (*models.Survey, *models.Question, error) {

	surveyID, err := parseID(surveyArg)
	if err != nil {
		return nil, nil, err
	}

	questionID, err := parseID(questionArg)
	if err != nil {
		return nil, nil, err
	}

	s, err := app.api.Surveys.Get(ctx, surveyID)
	if err != nil {
		return nil, nil, err
	}

	q, ok := s.GetQuestion(questionID)
	if !ok {
		return nil, nil, fmt.Errorf("survey #%d has no question #%d", surveyID, questionID)
	}

	return s, q, nil
}

// questionFromFlags returns nil when --text was not given so the caller can
// prompt instead.
func questionFromFlags(cmd *cobra.Command) (*models.QuestionRequest, error) {

	text, _ := cmd.Flags().GetString("text")
	if len(text) == 0 {
		return nil, nil
	}

	questionType, _ := cmd.Flags().GetString("type")
	required, _ := cmd.Flags().GetBool("required")
	options, _ := cmd.Flags().GetStringSlice("option")
	order, _ := cmd.Flags().GetInt("order")

	q := &models.QuestionRequest{
		Text:     text,
		Type:     models.QuestionType(questionType),
		Required: required,
		OrderNum: order,
		Options:  common.TrimAll(options...),
	}

	if err := survey.CheckQuestion(*q); err != nil {
		return nil, err
	}

	return q, nil
}

func nextOrderNum(s *models.Survey) int {
	next := 1
	for _, q := range s.Questions {
		if q.OrderNum >= next {
			next = q.OrderNum + 1
		}
	}
	return next
}

func init() {
	rootCmd.AddCommand(questionsCmd)
	questionsCmd.AddCommand(questionsAddCmd)
	questionsCmd.AddCommand(questionsUpdateCmd)
	questionsCmd.AddCommand(questionsDeleteCmd)

	for _, cmd := range []*cobra.Command{questionsAddCmd, questionsUpdateCmd} {
		cmd.Flags().String("text", "", "Question text (prompted when omitted)")
		cmd.Flags().String("type", string(models.QuestionTypeText), "Question type: text, single_choice, dropdown, multiple_choice, checkbox or rating")
		cmd.Flags().Bool("required", false, "Require an answer")
		cmd.Flags().StringSlice("option", nil, "Answer option, repeat for each option")
		cmd.Flags().Int("order", 0, "Position in the survey")
	}

	questionsDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
