package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors returned by Client methods. Match them with errors.Is.
var (
	// ErrNotLoggedIn means the session was rejected by the service.
	ErrNotLoggedIn = errors.New(`invalid secrets; API returned a "not logged in" response`)

	// ErrInsufficientAuthorization means the session lacks the role needed
	// for the operation.
	ErrInsufficientAuthorization = errors.New("secrets do not have a high enough role")

	// ErrInvalidKeyGenerationTarget means the id passed to GenerateKey is
	// unknown or belongs to a package.
	ErrInvalidKeyGenerationTarget = errors.New("the id specified for key generation is either invalid or designated for a package")
)

// StatusError reports an unexpected HTTP status code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("got error response status: %d %s", e.Code, http.StatusText(e.Code))
}

// Error is a failure reported by the service in a response body.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return "fumosclub api error: " + e.Message
}

// BannedError reports that the account behind the session is banned.
type BannedError struct {
	Reason string
}

func (e *BannedError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "(no reason provided)"
	}

	return "the user is banned for " + reason
}

// statusError maps a non-2xx status code to an error.
func statusError(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrNotLoggedIn
	case http.StatusForbidden:
		return ErrInsufficientAuthorization
	default:
		return &StatusError{Code: code}
	}
}

// bodyError maps an unsuccessful response envelope to an error. It returns
// nil when the envelope does not report a failure.
func bodyError(env envelope) error {
	if env.Banned {
		reason := ""
		if env.Reason != nil {
			reason = *env.Reason
		}

		return &BannedError{Reason: reason}
	}

	if env.Success == nil || *env.Success {
		return nil
	}

	msg := env.Error
	if msg == "" {
		msg = env.Message
	}

	if strings.Contains(strings.ToLower(msg), "not logged in") {
		return ErrNotLoggedIn
	}

	if msg == "" {
		msg = "request was not successful"
	}

	return &Error{Message: msg}
}
