// Package survey checks answers against a survey before anything is sent
// to the backend, and reads survey definitions from disk.
package survey

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/survey-platform/surveyctl/internal/common"
	"github.com/survey-platform/surveyctl/internal/models"
)

const (
	RatingMin = "1"
	RatingMax = "5"
)

// Answers maps a question ID to its answer values. Single value questions
// carry one value.
type Answers map[int][]string

// Set stores values for a question, dropping blanks.
func (a Answers) Set(questionID int, values ...string) {
	a[questionID] = common.TrimAll(values...)
}

type FieldError struct {
	QuestionID int
	Question   string
	Message    string
}

func (e FieldError) Error() string {
	if len(e.Question) > 0 {
		return fmt.Sprintf("%s: %s", e.Question, e.Message)
	}
	return fmt.Sprintf("question %d: %s", e.QuestionID, e.Message)
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	messages := make([]string, 0, len(v))
	for _, e := range v {
		messages = append(messages, e.Error())
	}
	return strings.Join(messages, "; ")
}

// For returns the error for a question, if any.
func (v ValidationErrors) For(questionID int) (FieldError, bool) {
	for _, e := range v {
		if e.QuestionID == questionID {
			return e, true
		}
	}
	return FieldError{}, false
}

// Validate checks the answers against the survey's questions. It returns
// ValidationErrors ordered like the survey, or nil.
func Validate(s *models.Survey, answers Answers) error {

	var errs ValidationErrors

	for _, questionID := range slices.Sorted(maps.Keys(answers)) {
		if _, ok := s.GetQuestion(questionID); !ok {
			errs = append(errs, FieldError{
				QuestionID: questionID,
				Message:    "Question is not part of this survey",
			})
		}
	}

	for _, q := range s.OrderedQuestions() {
		if msg := validateQuestion(q, answers[q.ID]); len(msg) > 0 {
			errs = append(errs, FieldError{
				QuestionID: q.ID,
				Question:   q.Text,
				Message:    msg,
			})
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

func validateQuestion(q *models.Question, values []string) string {

	if len(values) == 0 {
		if !q.Required {
			return ""
		}
		if q.Type.IsMultiSelect() {
			return "Please select at least one option"
		}
		if q.Type == models.QuestionTypeRating {
			return "Please choose a rating"
		}
		return "This question is required"
	}

	switch {
	case q.Type.IsSingleSelect():
		if len(values) > 1 {
			return "Please select only one option"
		}
		if !slices.Contains(q.OptionTexts(), values[0]) {
			return fmt.Sprintf("%q is not one of the options", values[0])
		}

	case q.Type.IsMultiSelect():
		options := q.OptionTexts()
		for _, value := range values {
			if !slices.Contains(options, value) {
				return fmt.Sprintf("%q is not one of the options", value)
			}
		}
		if len(slices.Compact(slices.Sorted(slices.Values(values)))) != len(values) {
			return "Each option can only be selected once"
		}

	case q.Type == models.QuestionTypeRating:
		if len(values) > 1 {
			return "Please choose a single rating"
		}
		if !common.IsValidNumber(values[0], false) {
			return "Rating must be a whole number"
		}
		if msg := common.ValidateNumberRange(values[0], RatingMin, RatingMax); len(msg) > 0 {
			return msg
		}

	case q.Type == models.QuestionTypeText:
		if len(values) > 1 {
			return "Please give a single answer"
		}

	default:
		return fmt.Sprintf("Unsupported question type %q", q.Type)
	}

	return ""
}

// BuildResponse validates the answers and assembles the submission, with
// answers in question order. Multi-select answers are sent as lists.
func BuildResponse(s *models.Survey, answers Answers) (*models.CreateResponseRequest, error) {

	if err := Validate(s, answers); err != nil {
		return nil, err
	}

	req := &models.CreateResponseRequest{
		SurveyID: s.ID,
		Answers:  []models.Answer{},
	}

	for _, q := range s.OrderedQuestions() {
		values := answers[q.ID]
		if len(values) == 0 {
			continue
		}

		answer := models.Answer{QuestionID: q.ID}
		if q.Type.IsMultiSelect() {
			answer.Value = slices.Clone(values)
		} else {
			answer.Value = values[0]
		}
		req.Answers = append(req.Answers, answer)
	}

	return req, nil
}
