package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/survey-platform/surveyctl/internal/client"
	"github.com/survey-platform/surveyctl/internal/models"
)

// recorder captures requests instead of sending them.
type recorder struct {
	requests []*client.Request
}

func (r *recorder) Do(ctx context.Context, req *client.Request) error {
	r.requests = append(r.requests, req)
	return nil
}

func (r *recorder) last() *client.Request {
	return r.requests[len(r.requests)-1]
}

func TestEndpointTable(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	a := New(rec)

	tests := []struct {
		name      string
		call      func()
		method    string
		path      string
		noRefresh bool
		query     map[string]string
	}{
		{"register", func() { a.Auth.Register(ctx, models.RegisterRequest{Username: "ann"}) }, http.MethodPost, "/v1/auth/register", true, nil},
		{"login", func() { a.Auth.Login(ctx, models.Credentials{Email: "a@b.com"}) }, http.MethodPost, "/v1/auth/login", true, nil},
		{"refresh", func() { a.Auth.Refresh(ctx, "R1") }, http.MethodPost, "/v1/auth/refresh", true, nil},
		{"current user", func() { a.Auth.CurrentUser(ctx) }, http.MethodGet, "/v1/users/me", false, nil},
		{"update user", func() { a.Auth.UpdateCurrentUser(ctx, models.UserUpdate{}) }, http.MethodPut, "/v1/users/me", false, nil},
		{"list surveys", func() { a.Surveys.List(ctx) }, http.MethodGet, "/v1/surveys", false, nil},
		{"get survey", func() { a.Surveys.Get(ctx, 3) }, http.MethodGet, "/v1/surveys/3", false, nil},
		{"create survey", func() { a.Surveys.Create(ctx, models.SurveyRequest{}) }, http.MethodPost, "/v1/surveys", false, nil},
		{"update survey", func() { a.Surveys.Update(ctx, 3, models.SurveyRequest{}) }, http.MethodPut, "/v1/surveys/3", false, nil},
		{"delete survey", func() { a.Surveys.Delete(ctx, 3) }, http.MethodDelete, "/v1/surveys/3", false, nil},
		{"survey status", func() { a.Surveys.UpdateStatus(ctx, 3, true) }, http.MethodPatch, "/v1/surveys/3/status", false, nil},
		{"add question", func() { a.Surveys.AddQuestion(ctx, 3, models.QuestionRequest{}) }, http.MethodPost, "/v1/surveys/3/questions", false, nil},
		{"update question", func() { a.Surveys.UpdateQuestion(ctx, 11, models.QuestionRequest{}) }, http.MethodPut, "/v1/questions/11", false, nil},
		{"delete question", func() { a.Surveys.DeleteQuestion(ctx, 11) }, http.MethodDelete, "/v1/questions/11", false, nil},
		{"submit response", func() { a.Responses.Submit(ctx, models.CreateResponseRequest{SurveyID: 3}) }, http.MethodPost, "/v1/responses", false, nil},
		{"list responses", func() { a.Responses.List(ctx, 3) }, http.MethodGet, "/v1/responses", false, map[string]string{"survey_id": "3"}},
		{"response summary", func() { a.Responses.Summary(ctx, 3) }, http.MethodGet, "/v1/responses/summary", false, map[string]string{"survey_id": "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.call()
			req := rec.last()
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.noRefresh, req.NoRefresh)
			assert.Equal(t, tt.query, req.Query)
		})
	}
}

func TestRefresh_SendsRefreshToken(t *testing.T) {
	rec := &recorder{}
	New(rec).Auth.Refresh(context.Background(), "R1")

	assert.Equal(t, models.RefreshRequest{RefreshToken: "R1"}, rec.last().Body)
}

func TestUpdateStatus_SendsIsActive(t *testing.T) {
	rec := &recorder{}
	New(rec).Surveys.UpdateStatus(context.Background(), 1, false)

	body, err := json.Marshal(rec.last().Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_active": false}`, string(body))
}

func TestLogin_AgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "a@b.com", creds.Email)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"T1","refresh_token":"R1","user":{"id":1}}`))
	}))
	defer server.Close()

	c := client.New(client.Options{BaseURL: server.URL, Timeout: time.Second, ClientID: "test"})
	resp, err := New(c).Auth.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, "T1", resp.Token)
	assert.Equal(t, "R1", resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, 1, resp.User.ID)
}

func TestSubmit_AnswerWireFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 5, body["surveyId"])
		answers := body["answers"].([]any)
		first := answers[0].(map[string]any)
		assert.EqualValues(t, 2, first["questionId"])
		assert.Equal(t, []any{"Red", "Blue"}, first["value"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"r-1","surveyId":5,"submittedAt":"2025-01-02T03:04:05Z","answers":[]}`))
	}))
	defer server.Close()

	c := client.New(client.Options{BaseURL: server.URL, Timeout: time.Second, ClientID: "test"})
	resp, err := New(c).Responses.Submit(context.Background(), models.CreateResponseRequest{
		SurveyID: 5,
		Answers:  []models.Answer{{QuestionID: 2, Value: []string{"Red", "Blue"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "r-1", resp.ID)
}
