package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/survey-platform/surveyctl/internal/config"
	"github.com/survey-platform/surveyctl/internal/models"
	"github.com/survey-platform/surveyctl/internal/router"
)

// newTestApplication points the global app at a fake backend that accepts
// password "x" and keeps the session in memory.
func newTestApplication(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/v1/auth/login" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var creds models.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "x" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid credentials"}`))
			return
		}
		json.NewEncoder(w).Encode(models.AuthResponse{
			Token:        "T1",
			RefreshToken: "R1",
			User:         &models.User{ID: 1, Username: "ann"},
		})
	}))
	t.Cleanup(server.Close)

	testConfig := config.DefaultConfig()
	require.NoError(t, testConfig.SetAPIURL(server.URL))
	testConfig.Storage.Driver = "memory"

	testApp, err := newApplication(testConfig)
	require.NoError(t, err)

	previousConfig, previousApp := cfg, app
	previousTerminal, previousConfirm := stdinIsTerminal, confirmLogin
	cfg, app = testConfig, testApp
	t.Cleanup(func() {
		cfg, app = previousConfig, previousApp
		stdinIsTerminal, confirmLogin = previousTerminal, previousConfirm
	})
}

func routedCommand(name router.Name, password string) *cobra.Command {
	cmd := &cobra.Command{Use: "test", Annotations: map[string]string{annotationRoute: string(name)}}
	cmd.Flags().String("email", "a@b.com", "")
	cmd.Flags().String("password", password, "")
	return cmd
}

func TestNavigate_LoginThenResumesAtRedirect(t *testing.T) {
	newTestApplication(t)
	stdinIsTerminal = func() bool { return true }
	confirmLogin = func() (bool, error) { return true, nil }

	err := navigate(routedCommand(router.SurveyResponses, "x"), []string{"7"})
	require.NoError(t, err)

	assert.True(t, app.session.IsAuthenticated())
	current := app.router.Current()
	assert.Equal(t, router.SurveyResponses, current.Name)
	assert.Equal(t, "/surveys/7/responses", current.Path)
}

func TestNavigate_DeclinedLoginStops(t *testing.T) {
	newTestApplication(t)
	stdinIsTerminal = func() bool { return true }
	confirmLogin = func() (bool, error) { return false, nil }

	err := navigate(routedCommand(router.SurveyResponses, "x"), []string{"7"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declined")
	assert.False(t, app.session.IsAuthenticated())
}

func TestNavigate_NonInteractiveRequiresLogin(t *testing.T) {
	newTestApplication(t)
	stdinIsTerminal = func() bool { return false }
	confirmLogin = func() (bool, error) {
		t.Fatal("prompted without a terminal")
		return false, nil
	}

	err := navigate(routedCommand(router.Dashboard, "x"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surveyctl login")
}

func TestNavigate_FailedLoginDoesNotResume(t *testing.T) {
	newTestApplication(t)
	stdinIsTerminal = func() bool { return true }
	confirmLogin = func() (bool, error) { return true, nil }

	err := navigate(routedCommand(router.Dashboard, "wrong"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
	assert.NotEqual(t, router.Dashboard, app.router.Current().Name)
}

func TestNavigate_GuestRouteWhileLoggedIn(t *testing.T) {
	newTestApplication(t)
	stdinIsTerminal = func() bool { return true }
	confirmLogin = func() (bool, error) { return true, nil }

	require.NoError(t, navigate(routedCommand(router.Dashboard, "x"), nil))

	err := navigate(routedCommand(router.Login, "x"), nil)
	assert.ErrorIs(t, err, errAlreadyLoggedIn)
}
