package models

import (
	"slices"
	"time"
)

type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeSingleChoice   QuestionType = "single_choice"
	QuestionTypeDropdown       QuestionType = "dropdown"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeCheckbox       QuestionType = "checkbox"
	QuestionTypeRating         QuestionType = "rating"
)

// IsMultiSelect reports whether answers to the question are lists of options.
func (q QuestionType) IsMultiSelect() bool {
	return q == QuestionTypeMultipleChoice || q == QuestionTypeCheckbox
}

// IsSingleSelect reports whether answers must be exactly one of the options.
func (q QuestionType) IsSingleSelect() bool {
	return q == QuestionTypeSingleChoice || q == QuestionTypeDropdown
}

func (q QuestionType) HasOptions() bool {
	return q.IsMultiSelect() || q.IsSingleSelect()
}

type Survey struct {
	ID          int         `json:"id" yaml:"id"`
	CreatorID   int         `json:"creator_id,omitempty" yaml:"creator_id,omitempty"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	IsActive    bool        `json:"is_active" yaml:"is_active"`
	StartDate   *time.Time  `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate     *time.Time  `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Questions   []*Question `json:"questions,omitempty" yaml:"questions,omitempty"`
	CreatedAt   time.Time   `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt   time.Time   `json:"updated_at,omitempty" yaml:"-"`
}

// OrderedQuestions returns the questions sorted by their order number. The
// survey itself is left untouched.
func (s *Survey) OrderedQuestions() []*Question {
	questions := slices.Clone(s.Questions)
	slices.SortStableFunc(questions, func(a, b *Question) int {
		return a.OrderNum - b.OrderNum
	})
	return questions
}

func (s *Survey) GetQuestion(id int) (*Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return nil, false
}

type Question struct {
	ID        int               `json:"id" yaml:"id"`
	SurveyID  int               `json:"survey_id,omitempty" yaml:"survey_id,omitempty"`
	Text      string            `json:"text" yaml:"text"`
	Type      QuestionType      `json:"type" yaml:"type"`
	Required  bool              `json:"required" yaml:"required"`
	OrderNum  int               `json:"order_num" yaml:"order_num"`
	Options   []*QuestionOption `json:"options,omitempty" yaml:"options,omitempty"`
	CreatedAt time.Time         `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt time.Time         `json:"updated_at,omitempty" yaml:"-"`
}

// OptionTexts returns the option labels in display order.
func (q *Question) OptionTexts() []string {
	options := slices.Clone(q.Options)
	slices.SortStableFunc(options, func(a, b *QuestionOption) int {
		return a.OrderNum - b.OrderNum
	})
	texts := make([]string, 0, len(options))
	for _, o := range options {
		texts = append(texts, o.Text)
	}
	return texts
}

type QuestionOption struct {
	ID         int    `json:"id" yaml:"id"`
	QuestionID int    `json:"question_id,omitempty" yaml:"question_id,omitempty"`
	Text       string `json:"text" yaml:"text"`
	OrderNum   int    `json:"order_num" yaml:"order_num"`
}

// SurveyRequest is sent to create (POST /v1/surveys) and update
// (PUT /v1/surveys/{id}) a survey.
type SurveyRequest struct {
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	IsActive    bool              `json:"is_active" yaml:"is_active"`
	StartDate   *time.Time        `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate     *time.Time        `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Questions   []QuestionRequest `json:"questions,omitempty" yaml:"questions,omitempty"`
}

// QuestionRequest is used both inside a SurveyRequest and on its own for
// POST /v1/surveys/{id}/questions and PUT /v1/questions/{id}.
type QuestionRequest struct {
	ID       *int         `json:"id,omitempty" yaml:"id,omitempty"`
	SurveyID int          `json:"survey_id,omitempty" yaml:"survey_id,omitempty"`
	Text     string       `json:"text" yaml:"text"`
	Type     QuestionType `json:"type" yaml:"type"`
	Required bool         `json:"required" yaml:"required"`
	OrderNum int          `json:"order_num" yaml:"order_num"`
	Options  []string     `json:"options,omitempty" yaml:"options,omitempty"`
}

type StatusRequest struct {
	IsActive bool `json:"is_active"`
}
