package storeapi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnauthorized is returned when the upstream rejects the bearer credential
	ErrUnauthorized = errors.New("unauthorized: invalid or expired credential")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrNotFound is returned when the upstream resource does not exist
	ErrNotFound = errors.New("resource not found")
)

// APIError carries the upstream's error payload so callers can surface its
// message verbatim to the user.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alienstore api error: status=%d, message=%s", e.StatusCode, e.Message)
}
