// Package router maps paths to views and runs navigation guards before
// every transition.
package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrNavigationRedirected = errors.New("navigation redirected")
	ErrTooManyRedirects     = errors.New("too many redirects")
	ErrNoMatchingRoute      = errors.New("no matching route")
	ErrUnknownRoute         = errors.New("unknown route name")
)

const maxRedirects = 10

// Location is a resolved navigation target.
type Location struct {
	Name     Name
	Meta     Meta
	Path     string
	FullPath string
	Params   map[string]string
	Query    url.Values
	// RedirectedFrom is the full path originally requested when a guard
	// redirected the navigation here.
	RedirectedFrom string
}

func (l Location) Param(name string) string {
	return l.Params[name]
}

// Guard decides a navigation. It returns an empty string to allow it or
// the path to redirect to.
type Guard func(to Location, from Location) (string, error)

type Hook func(to Location, from Location)

type Router struct {
	mu        sync.Mutex
	routes    []Route
	guards    []Guard
	afterEach []Hook
	current   Location
}

func New(routes []Route) *Router {
	return &Router{
		routes: routes,
		current: Location{
			Path:     "/",
			FullPath: "/",
		},
	}
}

func (r *Router) BeforeEach(guard Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards = append(r.guards, guard)
}

func (r *Router) AfterEach(hook Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterEach = append(r.afterEach, hook)
}

func (r *Router) Current() Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Resolve matches a path, optionally carrying a query string, against the
// route table.
func (r *Router) Resolve(rawPath string) (Location, error) {

	u, err := url.Parse(rawPath)
	if err != nil {
		return Location{}, fmt.Errorf("invalid path %q: %w", rawPath, err)
	}

	path := "/" + strings.Trim(u.Path, "/")
	query := u.Query()

	for _, route := range r.routes {
		params, ok := match(route.Path, path)
		if !ok {
			continue
		}

		fullPath := path
		if len(query) > 0 {
			fullPath = path + "?" + query.Encode()
		}

		return Location{
			Name:     route.Name,
			Meta:     route.Meta,
			Path:     path,
			FullPath: fullPath,
			Params:   params,
			Query:    query,
		}, nil
	}

	return Location{}, fmt.Errorf("%w: %s", ErrNoMatchingRoute, path)
}

// URLFor builds the path of a named route.
func (r *Router) URLFor(name Name, params map[string]string) (string, error) {
	for _, route := range r.routes {
		if route.Name != name {
			continue
		}
		segments := strings.Split(strings.Trim(route.Path, "/"), "/")
		for i, segment := range segments {
			if strings.HasPrefix(segment, ":") {
				value, ok := params[segment[1:]]
				if !ok {
					return "", fmt.Errorf("missing param %q for route %s", segment[1:], name)
				}
				segments[i] = url.PathEscape(value)
			}
		}
		return "/" + strings.Join(segments, "/"), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownRoute, name)
}

// Push navigates to path. Guards may redirect; the final location becomes
// current and is returned. When a guard redirected the navigation the
// error wraps ErrNavigationRedirected.
func (r *Router) Push(path string) (Location, error) {

	r.mu.Lock()
	guards := append([]Guard(nil), r.guards...)
	hooks := append([]Hook(nil), r.afterEach...)
	from := r.current
	r.mu.Unlock()

	to, err := r.Resolve(path)
	if err != nil {
		return Location{}, err
	}

	requested := to.FullPath

	for redirects := 0; ; redirects++ {

		if redirects > maxRedirects {
			return Location{}, fmt.Errorf("%w: navigating to %s", ErrTooManyRedirects, requested)
		}

		redirect, err := runGuards(guards, to, from)
		if err != nil {
			return Location{}, err
		}

		if len(redirect) == 0 {
			break
		}

		logrus.WithFields(logrus.Fields{
			"from": to.FullPath,
			"to":   redirect,
		}).Debugln("Navigation redirected")

		to, err = r.Resolve(redirect)
		if err != nil {
			return Location{}, err
		}
	}

	if to.FullPath != requested {
		to.RedirectedFrom = requested
	}

	r.mu.Lock()
	r.current = to
	r.mu.Unlock()

	for _, hook := range hooks {
		hook(to, from)
	}

	if len(to.RedirectedFrom) > 0 {
		return to, fmt.Errorf("%w: from %s to %s", ErrNavigationRedirected, to.RedirectedFrom, to.FullPath)
	}

	return to, nil
}

func runGuards(guards []Guard, to Location, from Location) (string, error) {
	for _, guard := range guards {
		redirect, err := guard(to, from)
		if err != nil {
			return "", err
		}
		if len(redirect) > 0 {
			return redirect, nil
		}
	}
	return "", nil
}

func match(pattern string, path string) (map[string]string, bool) {

	params := map[string]string{}

	if pattern == "*" {
		return params, true
	}

	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	if len(patternParts) != len(pathParts) {
		return nil, false
	}

	for i, part := range patternParts {
		if strings.HasPrefix(part, ":") {
			if len(pathParts[i]) == 0 {
				return nil, false
			}
			value, err := url.PathUnescape(pathParts[i])
			if err != nil {
				return nil, false
			}
			params[part[1:]] = value
			continue
		}
		if part != pathParts[i] {
			return nil, false
		}
	}

	return params, true
}
