package router

import "net/url"

// AuthState is the part of the session the guard consults.
type AuthState interface {
	IsAuthenticated() bool
}

// AuthGuard sends unauthenticated users to the login view, remembering the
// attempted path in the redirect query, and sends authenticated users away
// from guest-only views to the dashboard.
func AuthGuard(state AuthState) Guard {
	return func(to Location, from Location) (string, error) {
		authenticated := state.IsAuthenticated()

		if to.Meta.RequiresAuth && !authenticated {
			query := url.Values{"redirect": {to.FullPath}}
			return PathLogin + "?" + query.Encode(), nil
		}

		if to.Meta.RequiresGuest && authenticated {
			return PathDashboard, nil
		}

		return "", nil
	}
}
