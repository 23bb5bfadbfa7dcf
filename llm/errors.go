package llm

import (
	"errors"
	"fmt"

	"github.com/pressgen/pressgen/resilience"
)

// Sentinel errors for client construction and responses.
var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("llm: api key is required")

	// ErrMissingBaseURL is returned when no endpoint is configured.
	ErrMissingBaseURL = errors.New("llm: base url is required")

	// ErrEmptyResponse is returned when the API responds with no choices.
	ErrEmptyResponse = errors.New("llm: response contained no choices")
)

// StatusError is a non-2xx response from the generation API.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: unexpected status %d: %s", e.Status, e.Body)
}

// statusError converts a non-2xx response into an error, marking gateway
// errors transient so the retry classifier sees a typed category instead
// of matching message text.
func statusError(status int, body string) error {
	err := &StatusError{Status: status, Body: body}
	switch status {
	case 502, 503, 504:
		return resilience.Transient(err)
	}
	return err
}
