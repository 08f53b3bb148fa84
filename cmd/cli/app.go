package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/survey-platform/surveyctl/internal/api"
	"github.com/survey-platform/surveyctl/internal/client"
	"github.com/survey-platform/surveyctl/internal/config"
	"github.com/survey-platform/surveyctl/internal/router"
	"github.com/survey-platform/surveyctl/internal/sessions"
	"github.com/survey-platform/surveyctl/internal/storage"
)

// application is everything a command needs, built once per invocation.
type application struct {
	config  *config.Config
	storage storage.Storage
	client  *client.Client
	api     *api.API
	session *sessions.Store
	router  *router.Router
}

func newApplication(cfg *config.Config) (*application, error) {

	store, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}

	httpClient := client.New(client.Options{
		BaseURL: cfg.GetAPIURL(),
		Timeout: cfg.API.GetTimeout(),
	})

	endpoints := api.New(httpClient)
	nav := router.New(router.Routes)

	session := sessions.New(endpoints.Auth, httpClient, store, nav)
	nav.BeforeEach(router.AuthGuard(session))

	if err := session.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return &application{
		config:  cfg,
		storage: store,
		client:  httpClient,
		api:     endpoints,
		session: session,
		router:  nav,
	}, nil
}

// close releases storage handles that need it.
func (a *application) close() {
	if err := storage.Close(a.storage); err != nil {
		logrus.WithError(err).Warnln("Failed to close local storage")
	}
}
