// Package api groups the backend's REST endpoints. Each wrapper composes
// the path and payload and hands the call to the shared HTTP client.
package api

import (
	"context"

	"github.com/survey-platform/surveyctl/internal/client"
)

// Doer issues a request through the configured HTTP client.
type Doer interface {
	Do(ctx context.Context, req *client.Request) error
}

type API struct {
	Auth      *AuthAPI
	Surveys   *SurveyAPI
	Responses *ResponseAPI
}

func New(doer Doer) *API {
	return &API{
		Auth:      &AuthAPI{doer: doer},
		Surveys:   &SurveyAPI{doer: doer},
		Responses: &ResponseAPI{doer: doer},
	}
}
