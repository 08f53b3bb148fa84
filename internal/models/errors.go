package models

// ErrorResponse is the structured error body the backend returns with any
// non-2xx status, e.g. {"error": "invalid credentials"}.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (e *ErrorResponse) String() string {
	if e == nil {
		return ""
	}
	if len(e.Message) > 0 && len(e.Error) > 0 {
		return e.Error + ": " + e.Message
	} else if len(e.Message) > 0 {
		return e.Message
	}
	return e.Error
}
