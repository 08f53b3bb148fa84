package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/survey-platform/surveyctl/internal/client"
	"github.com/survey-platform/surveyctl/internal/models"
)

const (
	pathResponses        = "/v1/responses"
	pathResponsesSummary = "/v1/responses/summary"
)

type ResponseAPI struct {
	doer Doer
}

func (r *ResponseAPI) Submit(ctx context.Context, response models.CreateResponseRequest) (*models.Response, error) {
	var out models.Response
	if err := r.doer.Do(ctx, &client.Request{
		Method: http.MethodPost,
		Path:   pathResponses,
		Body:   response,
		Result: &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ResponseAPI) List(ctx context.Context, surveyID int) ([]models.Response, error) {
	var out []models.Response
	err := r.doer.Do(ctx, &client.Request{
		Method: http.MethodGet,
		Path:   pathResponses,
		Query:  surveyQuery(surveyID),
		Result: &out,
	})
	return out, err
}

func (r *ResponseAPI) Summary(ctx context.Context, surveyID int) (*models.SurveyAnalytics, error) {
	var out models.SurveyAnalytics
	if err := r.doer.Do(ctx, &client.Request{
		Method: http.MethodGet,
		Path:   pathResponsesSummary,
		Query:  surveyQuery(surveyID),
		Result: &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func surveyQuery(surveyID int) map[string]string {
	return map[string]string{
		"survey_id": strconv.Itoa(surveyID),
	}
}
