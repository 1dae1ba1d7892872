package news

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingAPIKey is returned before any request is made when the NewsAPI
// provider has no credential.
var ErrMissingAPIKey = errors.New("missing API key: set api.api_key or NEWSHUB_API_KEY")

// NetworkError is a transport, timeout or decoding failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a well-formed response with a non-ok status. RetryAfter is
// set from the Retry-After header of a 429.
type APIError struct {
	Status     int
	Code       string
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("api error (%s): %s", e.Code, e.Message)
	case e.Message != "":
		return "api error: " + e.Message
	case e.Status != 0:
		return fmt.Sprintf("api error: HTTP %d", e.Status)
	default:
		return "api error"
	}
}

// UserMessage renders err as the single line shown in the status bar.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error()
		}
		if apiErr.RetryAfter > 0 {
			msg += fmt.Sprintf(" (retry in %s)", apiErr.RetryAfter)
		}
		return "Something broke: " + msg
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Network error: " + netErr.Err.Error()
	}
	return err.Error()
}
