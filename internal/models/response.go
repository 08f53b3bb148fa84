package models

import (
	"fmt"
	"strings"
	"time"
)

// Answer is a single answer within a response. Value is a string for single
// value questions and a list of strings for multi-select questions.
type Answer struct {
	QuestionID int `json:"questionId"`
	Value      any `json:"value"`
}

// Values flattens the answer value into a list of strings.
func (a Answer) Values() []string {
	switch v := a.Value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			values = append(values, fmt.Sprintf("%v", item))
		}
		return values
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}

func (a Answer) String() string {
	return strings.Join(a.Values(), ", ")
}

type Response struct {
	ID          string    `json:"id,omitempty"`
	SurveyID    int       `json:"surveyId"`
	UserID      *int      `json:"userId,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
	Answers     []Answer  `json:"answers"`
}

type CreateResponseRequest struct {
	SurveyID int      `json:"surveyId"`
	Answers  []Answer `json:"answers"`
}
