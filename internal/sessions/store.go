// Package sessions holds the client's authentication state. A single Store
// is constructed per process, hydrated from local storage by Initialize and
// shared with everything that needs to know who is logged in.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/survey-platform/surveyctl/internal/client"
	"github.com/survey-platform/surveyctl/internal/models"
	"github.com/survey-platform/surveyctl/internal/router"
	"github.com/survey-platform/surveyctl/internal/storage"
)

var (
	ErrNoRefreshToken    = errors.New("no refresh token available")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrIncompleteSession = errors.New("backend returned an incomplete token pair")
)

// AuthEndpoints are the backend calls the store makes.
type AuthEndpoints interface {
	Register(ctx context.Context, user models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, credentials models.Credentials) (*models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	UpdateCurrentUser(ctx context.Context, update models.UserUpdate) (*models.User, error)
}

// TokenHolder is the HTTP client's bearer header, written only by the store.
type TokenHolder interface {
	SetAuthToken(token string)
	ClearAuthToken()
	SetRefreshHandler(handler client.RefreshHandler)
}

type Navigator interface {
	Push(path string) (router.Location, error)
}

type Store struct {
	auth      AuthEndpoints
	http      TokenHolder
	storage   storage.Storage
	navigator Navigator

	mu           sync.RWMutex
	currentUser  *models.User
	accessToken  string
	refreshToken string
}

// New creates an empty store and registers it as the HTTP client's refresh
// handler. The navigator may be nil.
func New(auth AuthEndpoints, http TokenHolder, store storage.Storage, navigator Navigator) *Store {
	s := &Store{
		auth:      auth,
		http:      http,
		storage:   store,
		navigator: navigator,
	}
	http.SetRefreshHandler(s.refresh)
	return s
}

// SetNavigator replaces the navigator used by Logout.
func (s *Store) SetNavigator(navigator Navigator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigator = navigator
}

// Initialize hydrates the session from local storage and syncs the bearer
// header.
func (s *Store) Initialize() error {

	accessToken, _, err := s.storage.Get(storage.KeyToken)
	if err != nil {
		return fmt.Errorf("failed to read access token: %w", err)
	}

	refreshToken, _, err := s.storage.Get(storage.KeyRefreshToken)
	if err != nil {
		return fmt.Errorf("failed to read refresh token: %w", err)
	}

	s.mu.Lock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.currentUser = nil
	s.mu.Unlock()

	if len(accessToken) > 0 {
		s.http.SetAuthToken(accessToken)
	} else {
		s.http.ClearAuthToken()
	}

	logrus.WithFields(logrus.Fields{
		"authenticated": len(accessToken) > 0,
		"refreshable":   len(refreshToken) > 0,
	}).Debugln("Session initialized")

	return nil
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accessToken) > 0
}

func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Session returns a copy of the current state.
func (s *Store) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Session{
		CurrentUser:  s.currentUser,
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
	}
}

func (s *Store) Register(ctx context.Context, user models.RegisterRequest) (*models.AuthResponse, error) {

	resp, err := s.auth.Register(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.install(resp); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user": resp.User.DisplayName(),
	}).Infoln("Registered")

	return resp, nil
}

func (s *Store) Login(ctx context.Context, credentials models.Credentials) (*models.AuthResponse, error) {

	resp, err := s.auth.Login(ctx, credentials)
	if err != nil {
		return nil, err
	}

	if err := s.install(resp); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user": resp.User.DisplayName(),
	}).Infoln("Logged in")

	return resp, nil
}

// FetchCurrentUser returns nil without a request when no access token is
// held. A 401 logs the session out before the error is returned.
func (s *Store) FetchCurrentUser(ctx context.Context) (*models.User, error) {

	if !s.IsAuthenticated() {
		return nil, nil
	}

	user, err := s.auth.CurrentUser(ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			s.Logout()
		}
		return nil, err
	}

	s.mu.Lock()
	s.currentUser = user
	s.mu.Unlock()

	return user, nil
}

func (s *Store) UpdateCurrentUser(ctx context.Context, update models.UserUpdate) (*models.User, error) {

	if !s.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	user, err := s.auth.UpdateCurrentUser(ctx, update)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.currentUser = user
	s.mu.Unlock()

	return user, nil
}

// RefreshAccessToken exchanges the refresh token for a new pair. Any
// failure logs the session out.
func (s *Store) RefreshAccessToken(ctx context.Context) (*models.AuthResponse, error) {

	refreshToken := s.RefreshToken()
	if len(refreshToken) == 0 {
		s.Logout()
		return nil, ErrNoRefreshToken
	}

	resp, err := s.auth.Refresh(ctx, refreshToken)
	if err == nil {
		err = s.install(resp)
	}

	if err != nil {
		logrus.WithError(err).Warnln("Failed to refresh access token")
		s.Logout()
		return nil, err
	}

	logrus.Debugln("Access token refreshed")

	return resp, nil
}

func (s *Store) refresh(ctx context.Context) error {
	_, err := s.RefreshAccessToken(ctx)
	return err
}

// Logout clears the session, its stored tokens and the bearer header, then
// navigates to the login view. Calling it when logged out is harmless.
func (s *Store) Logout() error {

	s.mu.Lock()
	s.currentUser = nil
	s.accessToken = ""
	s.refreshToken = ""
	navigator := s.navigator
	s.mu.Unlock()

	err := s.storage.Remove(storage.KeyToken, storage.KeyRefreshToken)
	if err != nil {
		logrus.WithError(err).Errorln("Failed to remove stored tokens")
	}

	s.http.ClearAuthToken()

	if navigator != nil {
		if _, navErr := navigator.Push(router.PathLogin); navErr != nil &&
			!errors.Is(navErr, router.ErrNavigationRedirected) {
			logrus.WithError(navErr).Warnln("Failed to navigate to login")
		}
	}

	return err
}

// TokenExpiry reads the exp claim of the access token. The signature is not
// checked; the value is only used for display.
func (s *Store) TokenExpiry() (time.Time, bool) {

	token := s.AccessToken()
	if len(token) == 0 {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		logrus.WithError(err).Debugln("Access token is not a readable JWT")
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

// install persists the token pair, then swaps it into memory and the
// bearer header together.
func (s *Store) install(resp *models.AuthResponse) error {

	if resp == nil || !resp.Tokens().IsComplete() {
		return ErrIncompleteSession
	}

	previous, hadPrevious, err := s.storage.Get(storage.KeyToken)
	if err != nil {
		return fmt.Errorf("failed to read stored access token: %w", err)
	}

	if err := s.storage.Set(storage.KeyToken, resp.Token); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}

	if err := s.storage.Set(storage.KeyRefreshToken, resp.RefreshToken); err != nil {
		s.restoreAccessToken(previous, hadPrevious)
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	s.mu.Lock()
	s.accessToken = resp.Token
	s.refreshToken = resp.RefreshToken
	if resp.User != nil {
		s.currentUser = resp.User
	}
	s.mu.Unlock()

	s.http.SetAuthToken(resp.Token)

	return nil
}

// restoreAccessToken puts back the stored access token after a partial
// write so storage keeps matching the session still held in memory.
func (s *Store) restoreAccessToken(previous string, hadPrevious bool) {
	var err error
	if hadPrevious {
		err = s.storage.Set(storage.KeyToken, previous)
	} else {
		err = s.storage.Remove(storage.KeyToken)
	}
	if err != nil {
		logrus.WithError(err).Errorln("Failed to roll back stored access token")
	}
}
