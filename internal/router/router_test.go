package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth bool

func (f fakeAuth) IsAuthenticated() bool {
	return bool(f)
}

func newGuarded(authenticated bool) *Router {
	r := New(Routes)
	r.BeforeEach(AuthGuard(fakeAuth(authenticated)))
	return r
}

func TestResolve(t *testing.T) {
	r := New(Routes)

	tests := []struct {
		path   string
		name   Name
		params map[string]string
	}{
		{"/", Home, map[string]string{}},
		{"/login", Login, map[string]string{}},
		{"/dashboard/", Dashboard, map[string]string{}},
		{"/surveys/create", CreateSurvey, map[string]string{}},
		{"/surveys/12/edit", EditSurvey, map[string]string{"id": "12"}},
		{"/surveys/12/responses", SurveyResponses, map[string]string{"id": "12"}},
		{"/surveys/12", TakeSurvey, map[string]string{"id": "12"}},
		{"/nowhere/at/all", NotFound, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			loc, err := r.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.name, loc.Name)
			assert.Equal(t, tt.params, loc.Params)
		})
	}
}

func TestResolve_KeepsQuery(t *testing.T) {
	loc, err := New(Routes).Resolve("/login?redirect=%2Fdashboard")
	require.NoError(t, err)

	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, "/dashboard", loc.Query.Get("redirect"))
	assert.Equal(t, "/login?redirect=%2Fdashboard", loc.FullPath)
}

func TestResolve_NoCatchAll(t *testing.T) {
	r := New([]Route{{Path: "/", Name: Home}})
	_, err := r.Resolve("/missing")
	assert.ErrorIs(t, err, ErrNoMatchingRoute)
}

func TestAuthGuard_RequiresAuthRedirectsToLogin(t *testing.T) {
	r := newGuarded(false)

	loc, err := r.Push("/surveys/5/edit")
	assert.ErrorIs(t, err, ErrNavigationRedirected)

	assert.Equal(t, Login, loc.Name)
	assert.Equal(t, "/surveys/5/edit", loc.Query.Get("redirect"))
	assert.Equal(t, "/surveys/5/edit", loc.RedirectedFrom)
	assert.Equal(t, Login, r.Current().Name)
}

func TestAuthGuard_RedirectKeepsFullPath(t *testing.T) {
	r := newGuarded(false)

	loc, _ := r.Push("/dashboard?tab=active")
	assert.Equal(t, "/dashboard?tab=active", loc.Query.Get("redirect"))
}

func TestAuthGuard_RequiresGuestRedirectsToDashboard(t *testing.T) {
	r := newGuarded(true)

	loc, err := r.Push("/register")
	assert.ErrorIs(t, err, ErrNavigationRedirected)
	assert.Equal(t, Dashboard, loc.Name)
}

func TestAuthGuard_Allows(t *testing.T) {
	tests := []struct {
		authenticated bool
		path          string
		name          Name
	}{
		{true, "/dashboard", Dashboard},
		{true, "/surveys/create", CreateSurvey},
		{false, "/login", Login},
		{false, "/surveys/3", TakeSurvey},
		{true, "/surveys/3", TakeSurvey},
		{false, "/", Home},
		{false, "/missing", NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			loc, err := newGuarded(tt.authenticated).Push(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.name, loc.Name)
			assert.Empty(t, loc.RedirectedFrom)
		})
	}
}

func TestPush_AfterEachSeesFinalLocation(t *testing.T) {
	r := newGuarded(false)

	var visited []Name
	r.AfterEach(func(to Location, from Location) {
		visited = append(visited, to.Name)
	})

	r.Push("/")
	r.Push("/dashboard")

	assert.Equal(t, []Name{Home, Login}, visited)
}

func TestPush_RedirectLoop(t *testing.T) {
	r := New(Routes)
	r.BeforeEach(func(to Location, from Location) (string, error) {
		if to.Name == Login {
			return "/register", nil
		}
		return "/login", nil
	})

	_, err := r.Push("/")
	assert.ErrorIs(t, err, ErrTooManyRedirects)
}

func TestPush_GuardError(t *testing.T) {
	r := New(Routes)
	boom := errors.New("boom")
	r.BeforeEach(func(to Location, from Location) (string, error) {
		return "", boom
	})

	_, err := r.Push("/")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "/", r.Current().Path)
}

func TestURLFor(t *testing.T) {
	r := New(Routes)

	path, err := r.URLFor(EditSurvey, map[string]string{"id": "4"})
	require.NoError(t, err)
	assert.Equal(t, "/surveys/4/edit", path)

	_, err = r.URLFor(EditSurvey, nil)
	assert.Error(t, err)

	_, err = r.URLFor("Missing", nil)
	assert.ErrorIs(t, err, ErrUnknownRoute)
}
