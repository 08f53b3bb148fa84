package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/survey-platform/surveyctl/internal/common"
	"github.com/survey-platform/surveyctl/internal/models"
	"github.com/survey-platform/surveyctl/internal/router"
	"github.com/survey-platform/surveyctl/internal/survey"
)

var takeCmd = &cobra.Command{
	Use:         "take <id>",
	Short:       "Answer a survey",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationRoute: string(router.TakeSurvey)},
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

		if !s.IsActive {
			return fmt.Errorf("survey #%d is not accepting responses", id)
		}

		fmt.Println(surveyTitleStyle.Render(s.Title))
		if len(s.Description) > 0 {
			fmt.Println(s.Description)
		}
		fmt.Println()

		answers, err := askAnswers(s)
		if err != nil {
			return err
		}

		req, err := survey.BuildResponse(s, answers)
		if err != nil {
			return err
		}

		if _, err := app.api.Responses.Submit(ctx, *req); err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Thank you! Your response has been recorded."))
		return nil
	},
}

// askAnswers renders one form field per question, each validated with the
// same rules the submission is checked against.
func askAnswers(s *models.Survey) (survey.Answers, error) {

	questions := s.OrderedQuestions()
	single := make(map[int]*string, len(questions))
	multi := make(map[int]*[]string, len(questions))

	var fields []huh.Field

	for _, q := range questions {
		title := q.Text
		if q.Required {
			title += " *"
		}

		validate := func(values ...string) error {
			return fieldError(s, q, values)
		}

		switch {
		case q.Type.IsMultiSelect():
			selected := []string{}
			multi[q.ID] = &selected
			fields = append(fields, huh.NewMultiSelect[string]().
				Title(title).
				Options(huh.NewOptions(q.OptionTexts()...)...).
				Value(&selected).
				Validate(func(values []string) error { return validate(values...) }))

		case q.Type.IsSingleSelect():
			var selected string
			single[q.ID] = &selected
			options := q.OptionTexts()
			if !q.Required {
				options = append([]string{""}, options...)
			}
			fields = append(fields, huh.NewSelect[string]().
				Title(title).
				Options(huh.NewOptions(options...)...).
				Value(&selected).
				Validate(func(value string) error { return validate(value) }))

		case q.Type == models.QuestionTypeRating:
			var selected string
			single[q.ID] = &selected
			options := []huh.Option[string]{}
			if !q.Required {
				options = append(options, huh.NewOption("Skip", ""))
			}
			for i := 1; i <= 5; i++ {
				options = append(options, huh.NewOption(fmt.Sprintf("%d %s", i, stars(i)), strconv.Itoa(i)))
			}
			fields = append(fields, huh.NewSelect[string]().
				Title(title).
				Options(options...).
				Value(&selected).
				Validate(func(value string) error { return validate(value) }))

		default:
			var text string
			single[q.ID] = &text
			fields = append(fields, huh.NewText().
				Title(title).
				Placeholder("Your answer").
				Value(&text).
				Validate(func(value string) error { return validate(value) }))
		}
	}

	if len(fields) == 0 {
		return survey.Answers{}, nil
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return nil, fmt.Errorf("survey cancelled: %w", err)
	}

	answers := survey.Answers{}
	for id, value := range single {
		answers.Set(id, *value)
	}
	for id, values := range multi {
		answers.Set(id, *values...)
	}

	return answers, nil
}

// fieldError validates a single question's answer in isolation.
func fieldError(s *models.Survey, q *models.Question, values []string) error {

	answers := survey.Answers{}
	answers.Set(q.ID, values...)

	only := &models.Survey{ID: s.ID, Questions: []*models.Question{q}}
	err := survey.Validate(only, answers)

	var errs survey.ValidationErrors
	if errors.As(err, &errs) {
		if fieldErr, ok := errs.For(q.ID); ok {
			return errors.New(fieldErr.Message)
		}
	}
	return err
}

func stars(n int) string {
	out := ""
	for i := 0; i < 5; i++ {
		if i < n {
			out += "★"
		} else {
			out += "☆"
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(takeCmd)
}
