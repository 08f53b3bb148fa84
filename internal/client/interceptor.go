package client

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
)

// attempt threads the retry state of one logical request through the
// interceptor without touching the caller's Request.
type attempt struct {
	request *Request
	retried bool
	// token is the bearer token the last round trip was sent with.
	token string
}

// intercept sends the attempt and recovers from a single 401 by refreshing
// the access token and replaying the request once.
func (c *Client) intercept(ctx context.Context, a *attempt) error {
	for {
		resp, err := c.send(ctx, a)
		if err != nil {
			return err
		}

		if !resp.IsError() {
			return decodeResult(a.request, resp)
		}

		apiErr := newAPIError(a.request, resp)

		if resp.StatusCode() != http.StatusUnauthorized || a.retried || a.request.NoRefresh {
			return apiErr
		}

		handler := c.refreshHandler()
		if handler == nil {
			return apiErr
		}

		a.retried = true

		logrus.WithFields(logrus.Fields{
			"method": a.request.Method,
			"path":   a.request.Path,
		}).Debugln("Access token rejected, refreshing")

		if err := c.refreshOnce(ctx, a.token, handler); err != nil {
			logrus.WithError(err).Debugln("Token refresh failed")
			return err
		}
	}
}

// refreshOnce coalesces concurrent refreshes of the same rejected token
// into one in-flight call. When the rejected token has already been
// replaced the request is replayed with the newer token and no refresh is
// issued. The check runs inside the flight so a 401 arriving just after a
// refresh finished does not start another one.
//
// The shared refresh runs detached from the caller's cancellation: one
// caller giving up must not fail the refresh, and log out, for the others.
func (c *Client) refreshOnce(ctx context.Context, rejected string, handler RefreshHandler) error {

	refreshCtx := context.WithoutCancel(ctx)

	_, err, shared := c.refreshGroup.Do(rejected, func() (any, error) {
		if current := c.AuthToken(); len(current) > 0 && current != rejected {
			return nil, nil
		}
		return nil, handler(refreshCtx)
	})

	if shared {
		logrus.Debugln("Joined in-flight token refresh")
	}

	return err
}
