package service

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned when a search is attempted before an API
// key has been stored. No request is sent in that case.
var ErrMissingCredential = errors.New("API key not found")

// RequestError is returned when the recipe API answers with a non-success
// status or with a body that cannot be decoded.
type RequestError struct {
	StatusCode int
	// Message is the API's own message when it sent one.
	Message string
	// Malformed is set when the response body could not be parsed.
	Malformed bool
}

func (e *RequestError) Error() string {
	return e.Message
}

func newStatusError(status int, message string) *RequestError {
	if message == "" {
		message = fmt.Sprintf("API Error: %d", status)
	}
	return &RequestError{StatusCode: status, Message: message}
}

func newMalformedError(status int) *RequestError {
	return &RequestError{
		StatusCode: status,
		Message:    "API Error: malformed response",
		Malformed:  true,
	}
}
