package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/survey-platform/surveyctl/internal/common"
	"golang.org/x/sync/singleflight"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderClientID  = "X-Client"

	defaultTimeout = 30 * time.Second
)

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	ClientID  string
}

// RefreshHandler obtains a new access token and installs it with
// SetAuthToken before returning.
type RefreshHandler func(ctx context.Context) error

// Client is the one configured HTTP client every endpoint call goes
// through. It owns the bearer header and the response interceptor.
type Client struct {
	rest *resty.Client

	mu      sync.RWMutex
	token   string
	refresh RefreshHandler

	refreshGroup singleflight.Group
}

func New(opts Options) *Client {

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	userAgent := opts.UserAgent
	if len(userAgent) == 0 {
		userAgent = common.GetUserAgent()
	}

	clientID := opts.ClientID
	if len(clientID) == 0 {
		clientID = common.GetClientIdentifier().String()
	}

	rest := resty.New().
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetTimeout(timeout).
		SetLogger(logrus.StandardLogger()).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetHeader(HeaderClientID, clientID)

	rest.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logrus.WithFields(logrus.Fields{
			"method":    resp.Request.Method,
			"url":       resp.Request.URL,
			"status":    resp.StatusCode(),
			"duration":  resp.Time(),
			"requestId": resp.Request.Header.Get(HeaderRequestID),
		}).Debugln("API response")
		return nil
	})

	return &Client{
		rest: rest,
	}
}

func (c *Client) BaseURL() string {
	return c.rest.BaseURL
}

// SetAuthToken sets the bearer token sent with every subsequent request.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) ClearAuthToken() {
	c.SetAuthToken("")
}

func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetRefreshHandler installs the function the interceptor calls when a
// request is rejected with 401. A nil handler disables refreshing.
func (c *Client) SetRefreshHandler(handler RefreshHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh = handler
}

func (c *Client) refreshHandler() RefreshHandler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refresh
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Body   any
	Query  map[string]string
	// Result receives the decoded JSON body of a successful response.
	Result any
	// NoRefresh opts the request out of the 401 refresh and replay.
	NoRefresh bool
}

// Do issues the request and decodes the response into req.Result. Non-2xx
// responses are returned as *APIError.
func (c *Client) Do(ctx context.Context, req *Request) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	return c.intercept(ctx, &attempt{request: req})
}

// send performs a single round trip for the attempt with the current
// bearer token.
func (c *Client) send(ctx context.Context, a *attempt) (*resty.Response, error) {

	a.token = c.AuthToken()

	builder := c.rest.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, uuid.NewString())

	if len(a.token) > 0 {
		builder.SetAuthToken(a.token)
	}

	if a.request.Body != nil {
		builder.SetBody(a.request.Body)
	}

	if len(a.request.Query) > 0 {
		builder.SetQueryParams(a.request.Query)
	}

	resp, err := builder.Execute(strings.ToUpper(a.request.Method), a.request.Path)

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": a.request.Method,
			"path":   a.request.Path,
		}).Debugln("API request failed")
		return nil, fmt.Errorf("%s %s: %w", a.request.Method, a.request.Path, err)
	}

	return resp, nil
}

func decodeResult(req *Request, resp *resty.Response) error {
	body := resp.Body()
	if req.Result == nil || len(body) == 0 || resp.StatusCode() == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(body, req.Result); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.Path, err)
	}
	return nil
}
