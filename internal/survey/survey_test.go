package survey

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/survey-platform/surveyctl/internal/models"
)

func options(texts ...string) []*models.QuestionOption {
	out := make([]*models.QuestionOption, 0, len(texts))
	for i, text := range texts {
		out = append(out, &models.QuestionOption{ID: i + 1, Text: text, OrderNum: i + 1})
	}
	return out
}

func satisfactionSurvey() *models.Survey {
	return &models.Survey{
		ID:    42,
		Title: "Customer Satisfaction Survey",
		Questions: []*models.Question{
			{ID: 3, Text: "Which of our products have you used?", Type: models.QuestionTypeMultipleChoice, Required: true, OrderNum: 3, Options: options("Product A", "Product B", "Product C")},
			{ID: 1, Text: "How would you rate our service?", Type: models.QuestionTypeRating, Required: true, OrderNum: 1},
			{ID: 2, Text: "What did you like most?", Type: models.QuestionTypeText, OrderNum: 2},
			{ID: 4, Text: "Preferred contact", Type: models.QuestionTypeDropdown, OrderNum: 4, Options: options("Email", "Phone")},
		},
	}
}

func TestValidate_MissingRequiredAnswers(t *testing.T) {
	err := Validate(satisfactionSurvey(), Answers{})
	require.Error(t, err)

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs, 2)

	rating, ok := errs.For(1)
	require.True(t, ok)
	assert.Equal(t, "Please choose a rating", rating.Message)

	products, ok := errs.For(3)
	require.True(t, ok)
	assert.Equal(t, "Please select at least one option", products.Message)

	_, ok = errs.For(2)
	assert.False(t, ok)
}

func TestValidate_Answers(t *testing.T) {
	tests := []struct {
		name       string
		answers    Answers
		questionID int
		message    string
	}{
		{"rating too high", Answers{1: {"6"}, 3: {"Product A"}}, 1, "Value must be at most 5"},
		{"rating too low", Answers{1: {"0"}, 3: {"Product A"}}, 1, "Value must be at least 1"},
		{"rating not whole", Answers{1: {"2.5"}, 3: {"Product A"}}, 1, "Rating must be a whole number"},
		{"unknown option", Answers{1: {"4"}, 3: {"Product Z"}}, 3, `"Product Z" is not one of the options`},
		{"duplicate option", Answers{1: {"4"}, 3: {"Product A", "Product A"}}, 3, "Each option can only be selected once"},
		{"dropdown two values", Answers{1: {"4"}, 3: {"Product A"}, 4: {"Email", "Phone"}}, 4, "Please select only one option"},
		{"dropdown unknown", Answers{1: {"4"}, 3: {"Product A"}, 4: {"Fax"}}, 4, `"Fax" is not one of the options`},
		{"unknown question", Answers{1: {"4"}, 3: {"Product A"}, 99: {"x"}}, 99, "Question is not part of this survey"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(satisfactionSurvey(), tt.answers)
			var errs ValidationErrors
			require.True(t, errors.As(err, &errs))
			fieldErr, ok := errs.For(tt.questionID)
			require.True(t, ok)
			assert.Equal(t, tt.message, fieldErr.Message)
		})
	}
}

func TestBuildResponse(t *testing.T) {
	answers := Answers{}
	answers.Set(3, "Product A", " Product C ", "")
	answers.Set(1, "4")
	answers.Set(2, "Great service!")

	req, err := BuildResponse(satisfactionSurvey(), answers)
	require.NoError(t, err)

	assert.Equal(t, 42, req.SurveyID)
	assert.Equal(t, []models.Answer{
		{QuestionID: 1, Value: "4"},
		{QuestionID: 2, Value: "Great service!"},
		{QuestionID: 3, Value: []string{"Product A", "Product C"}},
	}, req.Answers)
}

func TestBuildResponse_InvalidReturnsNoRequest(t *testing.T) {
	req, err := BuildResponse(satisfactionSurvey(), Answers{})
	assert.Nil(t, req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "How would you rate our service?")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: Team pulse
description: Weekly check in
is_active: true
start_date: 2025-01-01T00:00:00Z
end_date: 2025-02-01T00:00:00Z
questions:
  - text: How was your week?
    type: rating
    required: true
  - text: Which days were remote?
    type: CHECKBOX
    options: [Mon, Tue, " Wed "]
`), 0600))

	def, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Team pulse", def.Title)
	require.Len(t, def.Questions, 2)
	assert.Equal(t, 1, def.Questions[0].OrderNum)
	assert.Equal(t, 2, def.Questions[1].OrderNum)
	assert.Equal(t, models.QuestionTypeCheckbox, def.Questions[1].Type)
	assert.Equal(t, []string{"Mon", "Tue", "Wed"}, def.Questions[1].Options)
	require.NotNil(t, def.EndDate)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), def.EndDate.UTC())
}

func TestLoad_IndentedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
    title: Indented
    questions:
      - text: Favourite colour?
        type: single_choice
        options: [Red, Blue]
`), 0600))

	def, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Indented", def.Title)
	require.Len(t, def.Questions, 1)
	assert.Equal(t, models.QuestionTypeSingleChoice, def.Questions[0].Type)
	assert.Equal(t, []string{"Red", "Blue"}, def.Questions[0].Options)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"JSON survey","questions":[{"text":"Name?","type":"text"}]}`), 0600))

	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "JSON survey", def.Title)
}

func TestCheckDefinition(t *testing.T) {
	start := time.Now()
	end := start.Add(-time.Hour)

	tests := []struct {
		name string
		def  models.SurveyRequest
	}{
		{"no title", models.SurveyRequest{}},
		{"end before start", models.SurveyRequest{Title: "x", StartDate: &start, EndDate: &end}},
		{"no question text", models.SurveyRequest{Title: "x", Questions: []models.QuestionRequest{{Type: models.QuestionTypeText}}}},
		{"bad type", models.SurveyRequest{Title: "x", Questions: []models.QuestionRequest{{Text: "q", Type: "slider"}}}},
		{"choice without options", models.SurveyRequest{Title: "x", Questions: []models.QuestionRequest{{Text: "q", Type: models.QuestionTypeSingleChoice}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, CheckDefinition(&tt.def), ErrInvalidDefinition)
		})
	}

	assert.NoError(t, CheckDefinition(&models.SurveyRequest{Title: "ok"}))
}

func TestWriteCSV(t *testing.T) {
	userID := 7
	submitted := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	responses := []models.Response{
		{
			ID:          "r1",
			SurveyID:    42,
			UserID:      &userID,
			SubmittedAt: submitted,
			Answers: []models.Answer{
				{QuestionID: 1, Value: "5"},
				{QuestionID: 3, Value: []any{"Product A", "Product B"}},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, satisfactionSurvey(), responses))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "response_id,submitted_at,user_id,How would you rate our service?,What did you like most?,Which of our products have you used?,Preferred contact", lines[0])
	assert.Equal(t, `r1,2025-03-04T05:06:07Z,7,5,,"Product A, Product B",`, lines[1])
}
