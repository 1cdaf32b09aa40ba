package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned by gateways when the server rejects the credential (HTTP 401)
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotSignedIn is returned before any network call when no credential is stored
	ErrNotSignedIn = errors.New("not signed in")

	// ErrMalformedResponse is returned when a body cannot be decoded into the expected shape
	ErrMalformedResponse = errors.New("malformed response")

	// ErrEmptyImage is returned when a candidate carries no image bytes
	ErrEmptyImage = errors.New("image cannot be empty")

	// ErrNoDraft is returned when there is no staged upload candidate
	ErrNoDraft = errors.New("no staged upload")
)

// StatusError describes a non-success HTTP status returned by the server
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned HTTP %d", e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == code
	}
	return false
}
