package api

import (
	"context"
	"net/http"

	"github.com/survey-platform/surveyctl/internal/client"
	"github.com/survey-platform/surveyctl/internal/models"
)

const (
	pathRegister = "/v1/auth/register"
	pathLogin    = "/v1/auth/login"
	pathRefresh  = "/v1/auth/refresh"
	pathMe       = "/v1/users/me"
)

type AuthAPI struct {
	doer Doer
}

// Register, Login and Refresh opt out of the refresh interceptor: a 401 from
// them means bad credentials, not an expired access token.

func (a *AuthAPI) Register(ctx context.Context, user models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := a.doer.Do(ctx, &client.Request{
		Method:    http.MethodPost,
		Path:      pathRegister,
		Body:      user,
		Result:    &out,
		NoRefresh: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Login(ctx context.Context, credentials models.Credentials) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := a.doer.Do(ctx, &client.Request{
		Method:    http.MethodPost,
		Path:      pathLogin,
		Body:      credentials,
		Result:    &out,
		NoRefresh: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := a.doer.Do(ctx, &client.Request{
		Method:    http.MethodPost,
		Path:      pathRefresh,
		Body:      models.RefreshRequest{RefreshToken: refreshToken},
		Result:    &out,
		NoRefresh: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	var out models.User
	err := a.doer.Do(ctx, &client.Request{
		Method: http.MethodGet,
		Path:   pathMe,
		Result: &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) UpdateCurrentUser(ctx context.Context, update models.UserUpdate) (*models.User, error) {
	var out models.User
	err := a.doer.Do(ctx, &client.Request{
		Method: http.MethodPut,
		Path:   pathMe,
		Body:   update,
		Result: &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
