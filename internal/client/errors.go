package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/survey-platform/surveyctl/internal/models"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	// Payload is the backend's structured error, nil when the body was not one.
	Payload *models.ErrorResponse
	Body    []byte
}

func newAPIError(req *Request, resp *resty.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Method:     req.Method,
		Path:       req.Path,
		Body:       resp.Body(),
	}

	var payload models.ErrorResponse
	if err := json.Unmarshal(apiErr.Body, &payload); err == nil &&
		(len(payload.Error) > 0 || len(payload.Message) > 0) {
		apiErr.Payload = &payload
	}

	return apiErr
}

func (e *APIError) Error() string {
	if e.Payload != nil {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Payload.String())
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Message returns the backend's error text, falling back to the status text.
func (e *APIError) Message() string {
	if e.Payload != nil {
		return e.Payload.String()
	}
	return http.StatusText(e.StatusCode)
}

func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not
// an *APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
