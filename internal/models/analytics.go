package models

// SurveyAnalytics is returned by GET /v1/responses/summary.
type SurveyAnalytics struct {
	SurveyID          int                 `json:"survey_id"`
	SurveyTitle       string              `json:"survey_title"`
	TotalResponses    int                 `json:"total_responses"`
	QuestionAnalytics []QuestionAnalytics `json:"question_analytics"`
}

type QuestionAnalytics struct {
	QuestionID     int                `json:"question_id"`
	QuestionText   string             `json:"question_text"`
	QuestionType   QuestionType       `json:"question_type"`
	OptionsSummary []OptionSummary    `json:"options_summary,omitempty"`
	TextResponses  []TextResponseData `json:"text_responses,omitempty"`
}

type OptionSummary struct {
	OptionID   *int    `json:"option_id,omitempty"`
	OptionText string  `json:"option_text"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type TextResponseData struct {
	Response string `json:"response"`
}
