package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/survey-platform/surveyctl/internal/common"
	"github.com/survey-platform/surveyctl/internal/models"
	"github.com/survey-platform/surveyctl/internal/router"
	"github.com/survey-platform/surveyctl/internal/survey"
)

var surveysCmd = &cobra.Command{
	Use:     "surveys",
	Aliases: []string{"survey"},
	Short:   "Create and manage surveys",
}

var surveysListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List your surveys",
	Annotations: map[string]string{annotationRoute: string(router.Dashboard)},
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, cleanup := common.WithInterrupt(context.Background())
		defer cleanup()

		search, _ := cmd.Flags().GetString("search")
		activeOnly, _ := cmd.Flags().GetBool("active")

		surveys, err := app.api.Surveys.List(ctx)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("Surveys"))
		fmt.Println()

		shown := 0
		for _, s := range surveys {
			if activeOnly && !s.IsActive {
				continue
			}
			if len(search) > 0 && !common.ContainsInsensitive(s.Title, search) {
				continue
			}
			fmt.Println(renderSurveyLine(s))
			shown++
		}

		if shown == 0 {
			fmt.Println(infoStyle.Render("No surveys found. Create one with 'surveyctl surveys create'."))
		}

		return nil
	},
}

var surveysShowCmd = &cobra.Command{
	Use:         "show <id>",
	Short:       "Show a survey and its questions",
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

		printSurvey(s)
		return nil
	},
}

var surveysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a survey",
	Long: `Create a survey interactively, or from a YAML or JSON definition:

  title: Team pulse
  description: Weekly check in
  questions:
    - text: How was your week?
      type: rating
      required: true
    - text: Which days were you in the office?
      type: checkbox
      options: [Mon, Tue, Wed, Thu, Fri]`,
	Annotations: map[string]string{annotationRoute: string(router.CreateSurvey)},
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, cleanup := common.WithInterrupt(context.Background())
		defer cleanup()

		def, err := surveyDefinition(cmd, nil)
		if err != nil {
			return err
		}

		created, err := app.api.Surveys.Create(ctx, *def)
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Survey #%d created", created.ID)))
		fmt.Printf("Share it with: surveyctl take %d\n", created.ID)
		return nil
	},
}

var surveysEditCmd = &cobra.Command{
	Use:         "edit <id>",
	Short:       "Edit a survey's details or replace it from a file",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationRoute: string(router.EditSurvey)},
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, cleanup := common.WithInterrupt(context.Background())
		defer cleanup()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		existing, err := app.api.Surveys.Get(ctx, id)
		if err != nil {
			return err
		}

		def, err := surveyDefinition(cmd, existing)
		if err != nil {
			return err
		}

		updated, err := app.api.Surveys.Update(ctx, id, *def)
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Survey #%d updated", updated.ID)))
		return nil
	},
}

var surveysDeleteCmd = &cobra.Command{
	Use:         "delete <id>",
	Short:       "Delete a survey and its questions",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationRoute: string(router.EditSurvey)},
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, cleanup := common.WithInterrupt(context.Background())
		defer cleanup()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			confirmed, err := confirm(
				fmt.Sprintf("Delete survey #%d?", id),
				"Responses already collected are kept by the backend but the survey cannot be taken again.",
			)
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Println(infoStyle.Render("Nothing deleted"))
				return nil
			}
		}

		if err := app.api.Surveys.Delete(ctx, id); err != nil {
			return err
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Survey #%d deleted", id)))
		return nil
	},
}

func newStatusCommand(use string, active bool) *cobra.Command {
	verb := "Deactivate"
	if active {
		verb = "Activate"
	}
	return &cobra.Command{
		Use:         use + " <id>",
		Short:       verb + " a survey",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationRoute: string(router.EditSurvey)},
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx, cleanup := common.WithInterrupt(context.Background())
			defer cleanup()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := app.api.Surveys.UpdateStatus(ctx, id, active)
			if err != nil {
				return err
			}

			fmt.Println(renderSurveyLine(*s))
			return nil
		},
	}
}

// surveyDefinition reads --file when given, otherwise asks for the survey
// details. existing pre-fills the form when editing.
func surveyDefinition(cmd *cobra.Command, existing *models.Survey) (*models.SurveyRequest, error) {

	file, _ := cmd.Flags().GetString("file")
	if len(file) > 0 {
		return survey.Load(file)
	}

	def := &models.SurveyRequest{}
	if existing != nil {
		def.Title = existing.Title
		def.Description = existing.Description
		def.IsActive = existing.IsActive
		def.StartDate = existing.StartDate
		def.EndDate = existing.EndDate
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&def.Title).Validate(requiredField("title")),
			huh.NewText().Title("Description").Value(&def.Description),
			huh.NewConfirm().Title("Accept responses now?").Value(&def.IsActive),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("survey form cancelled: %w", err)
	}

	// Questions are edited with the questions commands once a survey exists
	if existing == nil {
		questions, err := promptQuestions()
		if err != nil {
			return nil, err
		}
		def.Questions = questions
	}

	survey.Normalize(def)

	if err := survey.CheckDefinition(def); err != nil {
		return nil, err
	}

	return def, nil
}

func promptQuestions() ([]models.QuestionRequest, error) {

	var questions []models.QuestionRequest

	for {
		more, err := confirm(fmt.Sprintf("Add question %d?", len(questions)+1), "")
		if err != nil {
			return nil, err
		}
		if !more {
			return questions, nil
		}

		q, err := promptQuestion(nil)
		if err != nil {
			return nil, err
		}
		q.OrderNum = len(questions) + 1
		questions = append(questions, *q)
	}
}

// promptQuestion asks for a question's text, type and options.
func promptQuestion(existing *models.Question) (*models.QuestionRequest, error) {

	q := &models.QuestionRequest{Type: models.QuestionTypeText}
	var options string

	if existing != nil {
		q.Text = existing.Text
		q.Type = existing.Type
		q.Required = existing.Required
		q.OrderNum = existing.OrderNum
		options = strings.Join(existing.OptionTexts(), "\n")
	}

	typeOptions := make([]huh.Option[models.QuestionType], 0)
	for _, t := range survey.QuestionTypes() {
		typeOptions = append(typeOptions, huh.NewOption(strings.ReplaceAll(string(t), "_", " "), t))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Question").Value(&q.Text).Validate(requiredField("question")),
			huh.NewSelect[models.QuestionType]().Title("Type").Options(typeOptions...).Value(&q.Type),
			huh.NewConfirm().Title("Required?").Value(&q.Required),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Options").
				Description("One option per line").
				Value(&options),
		).WithHideFunc(func() bool {
			return !q.Type.HasOptions()
		}),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("question form cancelled: %w", err)
	}

	if q.Type.HasOptions() {
		q.Options = common.TrimAll(strings.Split(options, "\n")...)
	}

	if err := survey.CheckQuestion(*q); err != nil {
		return nil, err
	}

	return q, nil
}

func confirm(title string, description string) (bool, error) {
	var ok bool
	field := huh.NewConfirm().Title(title).Value(&ok)
	if len(description) > 0 {
		field.Description(description)
	}
	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

func init() {
	rootCmd.AddCommand(surveysCmd)
	surveysCmd.AddCommand(surveysListCmd)
	surveysCmd.AddCommand(surveysShowCmd)
	surveysCmd.AddCommand(surveysCreateCmd)
	surveysCmd.AddCommand(surveysEditCmd)
	surveysCmd.AddCommand(surveysDeleteCmd)
	surveysCmd.AddCommand(newStatusCommand("activate", true))
	surveysCmd.AddCommand(newStatusCommand("deactivate", false))

	surveysListCmd.Flags().String("search", "", "Only show surveys whose title contains this text")
	surveysListCmd.Flags().Bool("active", false, "Only show active surveys")

	surveysCreateCmd.Flags().StringP("file", "f", "", "Survey definition (YAML or JSON)")
	surveysEditCmd.Flags().StringP("file", "f", "", "Replace the survey with this definition (YAML or JSON)")
	surveysDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

