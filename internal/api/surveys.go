package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/survey-platform/surveyctl/internal/client"
	"github.com/survey-platform/surveyctl/internal/models"
)

const pathSurveys = "/v1/surveys"

func surveyPath(id int) string {
	return fmt.Sprintf("%s/%d", pathSurveys, id)
}

func questionPath(id int) string {
	return fmt.Sprintf("/v1/questions/%d", id)
}

type SurveyAPI struct {
	doer Doer
}

func (s *SurveyAPI) List(ctx context.Context) ([]models.Survey, error) {
	var out []models.Survey
	err := s.doer.Do(ctx, &client.Request{
		Method: http.MethodGet,
		Path:   pathSurveys,
		Result: &out,
	})
	return out, err
}

func (s *SurveyAPI) Get(ctx context.Context, id int) (*models.Survey, error) {
	var out models.Survey
	if err := s.doer.Do(ctx, &client.Request{
		Method: http.MethodGet,
		Path:   surveyPath(id),
		Result: &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SurveyAPI) Create(ctx context.Context, survey models.SurveyRequest) (*models.Survey, error) {
	var out models.Survey
	if err := s.doer.Do(ctx, &client.Request{
		Method: http.MethodPost,
		Path:   pathSurveys,
		Body:   survey,
		Result: &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SurveyAPI) Update(ctx context.Context, id int, survey models.SurveyRequest) (*models.Survey, error) {
	var out models.Survey
	if err := s.doer.Do(ctx, &client.Request{
		Method: http.MethodPut,
		Path:   surveyPath(id),
		Body:   survey,
		Result: &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SurveyAPI) Delete(ctx context.Context, id int) error {
	return s.doer.Do(ctx, &client.Request{
		Method: http.MethodDelete,
		Path:   surveyPath(id),
	})
}

func (s *SurveyAPI) UpdateStatus(ctx context.Context, id int, active bool) (*models.Survey, error) {
	var out models.Survey
	if err := s.doer.Do(ctx, &client.Request{
		Method: http.MethodPatch,
		Path:   surveyPath(id) + "/status",
		Body:   models.StatusRequest{IsActive: active},
		Result: &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SurveyAPI) AddQuestion(ctx context.Context, surveyID int, question models.QuestionRequest) (*models.Question, error) {
	var out models.Question
	if err := s.doer.Do(ctx, &client.Request{
		Method: http.MethodPost,
		Path:   surveyPath(surveyID) + "/questions",
		Body:   question,
		Result: &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SurveyAPI) UpdateQuestion(ctx context.Context, id int, question models.QuestionRequest) (*models.Question, error) {
	var out models.Question
	if err := s.doer.Do(ctx, &client.Request{
		Method: http.MethodPut,
		Path:   questionPath(id),
		Body:   question,
		Result: &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SurveyAPI) DeleteQuestion(ctx context.Context, id int) error {
	return s.doer.Do(ctx, &client.Request{
		Method: http.MethodDelete,
		Path:   questionPath(id),
	})
}
