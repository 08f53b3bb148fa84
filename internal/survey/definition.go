package survey

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/survey-platform/surveyctl/internal/common"
	"github.com/survey-platform/surveyctl/internal/models"
)

var ErrInvalidDefinition = errors.New("invalid survey definition")

var questionTypes = []models.QuestionType{
	models.QuestionTypeText,
	models.QuestionTypeSingleChoice,
	models.QuestionTypeDropdown,
	models.QuestionTypeMultipleChoice,
	models.QuestionTypeCheckbox,
	models.QuestionTypeRating,
}

// QuestionTypes lists the supported question types.
func QuestionTypes() []models.QuestionType {
	return slices.Clone(questionTypes)
}

// Load reads a survey definition from a YAML or JSON file and checks it.
func Load(path string) (*models.SurveyRequest, error) {

	def, err := common.ReadFileToInterface(path, models.SurveyRequest{})
	if err != nil {
		return nil, err
	}

	Normalize(def)

	if err := CheckDefinition(def); err != nil {
		return nil, err
	}

	return def, nil
}

// Normalize numbers questions that were left without an order.
func Normalize(def *models.SurveyRequest) {
	for i := range def.Questions {
		q := &def.Questions[i]
		if q.OrderNum == 0 {
			q.OrderNum = i + 1
		}
		q.Type = models.QuestionType(strings.ToLower(string(q.Type)))
		q.Options = common.TrimAll(q.Options...)
	}
}

// CheckDefinition reports problems the backend would reject.
func CheckDefinition(def *models.SurveyRequest) error {

	if len(strings.TrimSpace(def.Title)) == 0 {
		return fmt.Errorf("%w: title is required", ErrInvalidDefinition)
	}

	if def.StartDate != nil && def.EndDate != nil && def.EndDate.Before(*def.StartDate) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidDefinition)
	}

	for i, q := range def.Questions {
		if err := CheckQuestion(q); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	return nil
}

func CheckQuestion(q models.QuestionRequest) error {

	if len(strings.TrimSpace(q.Text)) == 0 {
		return fmt.Errorf("%w: question text is required", ErrInvalidDefinition)
	}

	if !slices.Contains(questionTypes, q.Type) {
		return fmt.Errorf("%w: unsupported question type %q", ErrInvalidDefinition, q.Type)
	}

	if q.Type.HasOptions() && len(q.Options) == 0 {
		return fmt.Errorf("%w: %s questions need options", ErrInvalidDefinition, q.Type)
	}

	return nil
}
